package scrollscene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type EaseFunc func(t float64) float64

const (
	EaseSmoothstep = "smoothstep"
	EasePower1Out  = "power1.out"
	EaseLinear     = "linear"
)

var eases = map[string]EaseFunc{
	EaseSmoothstep: func(t float64) float64 { return t * t * (3 - 2*t) },
	EasePower1Out:  func(t float64) float64 { return 1 - (1-t)*(1-t) },
	EaseLinear:     func(t float64) float64 { return t },
}

// EaseByName returns the named easing curve. Every curve maps 0 to 0 and 1 to 1.
func EaseByName(name string) (EaseFunc, bool) {
	e, ok := eases[name]
	return e, ok
}

// RetriggerPolicy decides what happens when a section is triggered while a
// tween on the same mesh is still running.
type RetriggerPolicy string

const (
	// RetriggerStack runs both tweens; each adds its full delta.
	RetriggerStack RetriggerPolicy = "stack"
	// RetriggerIgnore drops the new trigger.
	RetriggerIgnore RetriggerPolicy = "ignore"
	// RetriggerRestart drops the running tween (keeping what it already
	// applied) and starts a new one.
	RetriggerRestart RetriggerPolicy = "restart"
)

func ParseRetriggerPolicy(s string) (RetriggerPolicy, error) {
	switch p := RetriggerPolicy(s); p {
	case RetriggerStack, RetriggerIgnore, RetriggerRestart:
		return p, nil
	case "":
		return RetriggerStack, nil
	}
	return "", fmt.Errorf("unknown retrigger policy %q", s)
}

// Tween adds Delta to an entity's rotation over Duration seconds. It is
// additive: every step applies only the eased progress made since the
// previous step, so it composes with any other writer of the same rotation.
type Tween struct {
	Target    EntityId
	Delta     mgl32.Vec3
	StartTime float64
	Duration  float64
	Ease      EaseFunc

	applied float64
}

// Progress is the linear completion in [0, 1] at time now.
func (t *Tween) Progress(now float64) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return math.Min(math.Max((now-t.StartTime)/t.Duration, 0), 1)
}

// step returns the rotation to add for the interval since the last call.
func (t *Tween) step(now float64) (mgl32.Vec3, bool) {
	p := t.Progress(now)
	eased := t.Ease(p)
	d := t.Delta.Mul(float32(eased - t.applied))
	t.applied = eased
	return d, p >= 1
}

// TweenSet holds the active one-shot section tweens.
type TweenSet struct {
	active   []Tween
	policy   RetriggerPolicy
	delta    mgl32.Vec3
	duration float64
	ease     EaseFunc
}

func NewTweenSet(cfg SectionConfig) *TweenSet {
	ease, ok := EaseByName(cfg.Ease)
	if !ok {
		ease = eases[EaseSmoothstep]
	}
	policy, err := ParseRetriggerPolicy(string(cfg.Retrigger))
	if err != nil {
		policy = RetriggerStack
	}
	return &TweenSet{
		policy:   policy,
		delta:    mgl32.Vec3(cfg.Rotation),
		duration: cfg.DurationSeconds,
		ease:     ease,
	}
}

// Trigger starts a tween on target at time now. It reports false when the
// retrigger policy dropped the request.
func (s *TweenSet) Trigger(target EntityId, now float64) bool {
	if s.InFlight(target) {
		switch s.policy {
		case RetriggerIgnore:
			return false
		case RetriggerRestart:
			s.cancel(target)
		}
	}

	s.active = append(s.active, Tween{
		Target:    target,
		Delta:     s.delta,
		StartTime: now,
		Duration:  s.duration,
		Ease:      s.ease,
	})
	return true
}

func (s *TweenSet) InFlight(target EntityId) bool {
	for i := range s.active {
		if s.active[i].Target == target {
			return true
		}
	}
	return false
}

func (s *TweenSet) Len() int {
	return len(s.active)
}

func (s *TweenSet) cancel(target EntityId) {
	kept := s.active[:0]
	for _, t := range s.active {
		if t.Target != target {
			kept = append(kept, t)
		}
	}
	s.active = kept
}

// Advance applies every tween's progress up to now through rotationOf, which
// returns the rotation to mutate or nil when the target no longer exists.
// Finished tweens and tweens on missing targets are removed.
func (s *TweenSet) Advance(now float64, rotationOf func(EntityId) *mgl32.Vec3) {
	kept := s.active[:0]
	for _, t := range s.active {
		rot := rotationOf(t.Target)
		if rot == nil {
			continue
		}
		d, done := t.step(now)
		*rot = rot.Add(d)
		if !done {
			kept = append(kept, t)
		}
	}
	s.active = kept
}
