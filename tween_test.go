package scrollscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEases(t *testing.T) {
	for _, name := range []string{EaseSmoothstep, EasePower1Out, EaseLinear} {
		ease, ok := EaseByName(name)
		require.True(t, ok, name)
		assert.InDelta(t, 0, ease(0), 1e-12, name)
		assert.InDelta(t, 1, ease(1), 1e-12, name)

		prev := 0.0
		for i := 1; i <= 10; i++ {
			v := ease(float64(i) / 10)
			assert.GreaterOrEqual(t, v, prev, "%s is monotonic", name)
			prev = v
		}
	}

	_, ok := EaseByName("bounce")
	assert.False(t, ok)
}

func TestParseRetriggerPolicy(t *testing.T) {
	p, err := ParseRetriggerPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RetriggerStack, p)

	p, err = ParseRetriggerPolicy("restart")
	require.NoError(t, err)
	assert.Equal(t, RetriggerRestart, p)

	_, err = ParseRetriggerPolicy("queue")
	assert.EqualError(t, err, `unknown retrigger policy "queue"`)
}

func sectionConfig(policy RetriggerPolicy) SectionConfig {
	cfg := DefaultConfig().Animation.Section
	cfg.Retrigger = policy
	return cfg
}

func TestTweenSet_AddsFullDeltaAndFinishes(t *testing.T) {
	tweens := NewTweenSet(sectionConfig(RetriggerStack))
	rot := mgl32.Vec3{1, 1, 1}
	rotationOf := func(EntityId) *mgl32.Vec3 { return &rot }

	require.True(t, tweens.Trigger(7, 10))
	for now := 10.0; now <= 12.5; now += 0.25 {
		tweens.Advance(now, rotationOf)
	}

	assert.InDelta(t, 4, rot.X(), 1e-5)
	assert.InDelta(t, 7, rot.Y(), 1e-5)
	assert.InDelta(t, 1, rot.Z(), 1e-5)
	assert.Equal(t, 0, tweens.Len())
}

func TestTweenSet_ComposesWithOtherWriters(t *testing.T) {
	tweens := NewTweenSet(sectionConfig(RetriggerStack))
	rot := mgl32.Vec3{}
	rotationOf := func(EntityId) *mgl32.Vec3 { return &rot }

	tweens.Trigger(1, 0)
	for i := 0; i <= 20; i++ {
		rot[0] += 0.1
		tweens.Advance(float64(i)*0.1, rotationOf)
	}

	assert.InDelta(t, 2.1+3, rot.X(), 1e-4)
}

func TestTweenSet_AddsDeltaToRotationAtFirstStep(t *testing.T) {
	tweens := NewTweenSet(sectionConfig(RetriggerStack))
	rot := mgl32.Vec3{}
	rotationOf := func(EntityId) *mgl32.Vec3 { return &rot }

	tweens.Trigger(1, 0)
	rot = mgl32.Vec3{5, 5, 5}
	tweens.Advance(2, rotationOf)

	assert.InDelta(t, 8, rot.X(), 1e-5)
	assert.InDelta(t, 11, rot.Y(), 1e-5)
	assert.InDelta(t, 5, rot.Z(), 1e-5)
	assert.False(t, tweens.InFlight(1))
}

func TestTweenSet_Midway(t *testing.T) {
	tweens := NewTweenSet(sectionConfig(RetriggerStack))
	rot := mgl32.Vec3{}

	tweens.Trigger(1, 0)
	tweens.Advance(1, func(EntityId) *mgl32.Vec3 { return &rot })

	assert.InDelta(t, 1.5, rot.X(), 1e-6, "smoothstep is at one half halfway through")
	assert.InDelta(t, 3, rot.Y(), 1e-6)
	assert.True(t, tweens.InFlight(1))
}

func TestTweenSet_RetriggerPolicies(t *testing.T) {
	run := func(policy RetriggerPolicy) (mgl32.Vec3, bool) {
		tweens := NewTweenSet(sectionConfig(policy))
		rot := mgl32.Vec3{}
		rotationOf := func(EntityId) *mgl32.Vec3 { return &rot }

		tweens.Trigger(1, 0)
		tweens.Advance(1, rotationOf)
		accepted := tweens.Trigger(1, 1)
		for now := 1.0; now <= 4; now += 0.5 {
			tweens.Advance(now, rotationOf)
		}
		return rot, accepted
	}

	rot, accepted := run(RetriggerStack)
	assert.True(t, accepted)
	assert.InDelta(t, 6, rot.X(), 1e-5, "both tweens add their full delta")

	rot, accepted = run(RetriggerIgnore)
	assert.False(t, accepted)
	assert.InDelta(t, 3, rot.X(), 1e-5)

	rot, accepted = run(RetriggerRestart)
	assert.True(t, accepted)
	assert.InDelta(t, 1.5+3, rot.X(), 1e-5, "the cancelled tween keeps what it applied")
}

func TestTweenSet_DropsMissingTargets(t *testing.T) {
	tweens := NewTweenSet(sectionConfig(RetriggerStack))
	tweens.Trigger(1, 0)
	tweens.Trigger(2, 0)

	rot := mgl32.Vec3{}
	tweens.Advance(0.5, func(eid EntityId) *mgl32.Vec3 {
		if eid == 2 {
			return nil
		}
		return &rot
	})

	assert.Equal(t, 1, tweens.Len())
	assert.True(t, tweens.InFlight(1))
	assert.False(t, tweens.InFlight(2))
}

func TestTween_Progress(t *testing.T) {
	tw := Tween{StartTime: 2, Duration: 4}
	assert.Equal(t, 0.0, tw.Progress(1))
	assert.Equal(t, 0.5, tw.Progress(4))
	assert.Equal(t, 1.0, tw.Progress(10))

	instant := Tween{StartTime: 2}
	assert.Equal(t, 1.0, instant.Progress(0))
}
