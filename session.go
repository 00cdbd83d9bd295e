package scrollscene

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "session"
	sessionProperty = "scroll"
)

// SessionData is what survives between runs.
type SessionData struct {
	ScrollY float64 `yaml:"scroll_y"`
	Section int     `yaml:"section"`
}

// Session persists SessionData in the per-user data directory. A Session
// without a storage manager loads nothing and saves nothing.
type Session struct {
	manager *gdata.Manager
	logger  Logger
}

func OpenSession(appName string, logger Logger) *Session {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warnf("session storage unavailable: %v", err)
		manager = nil
	}
	return &Session{manager: manager, logger: logger}
}

// Load returns the saved data and whether there was any.
func (s *Session) Load() (SessionData, bool, error) {
	var data SessionData
	if s.manager == nil || !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return data, false, nil
	}

	raw, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return data, false, fmt.Errorf("failed to load session: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SessionData{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return data, true, nil
}

func (s *Session) Save(data SessionData) error {
	if s.manager == nil {
		return nil
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SessionModule restores the scroll position on start and saves it when the
// App starts exiting.
type SessionModule struct {
	AppName string
	Restore bool
}

func (m SessionModule) Install(app *App, cmd *Commands) {
	tracker := Resource[Tracker](app)
	if tracker == nil {
		panic("SessionModule requires the TrackerModule")
	}

	session := OpenSession(m.AppName, app.Logger())
	if m.Restore {
		restoreSession(session, tracker, app.Logger())
	}
	cmd.AddResources(session)

	if app.stateful {
		app.UseSystem(System(saveSessionSystem).InStage(Finale).InState(OnEnter(StateExiting)))
	}
}

func restoreSession(session *Session, tracker *Tracker, logger Logger) {
	data, ok, err := session.Load()
	if err != nil {
		logger.Warnf("%v", err)
		return
	}
	if !ok {
		return
	}
	tracker.ScrollTo(data.ScrollY)
	if tracker.ActiveSection != data.Section {
		logger.Warnf("saved section %d no longer matches scroll %.0f, restored section %d",
			data.Section, data.ScrollY, tracker.ActiveSection)
	}
	logger.Infof("session restored at section %d", tracker.ActiveSection)
}

func saveSessionSystem(session *Session, tracker *Tracker) {
	data := SessionData{ScrollY: tracker.ScrollY, Section: tracker.ActiveSection}
	if err := session.Save(data); err != nil {
		session.logger.Warnf("%v", err)
		return
	}
	session.logger.Debugf("session saved at scroll %.0f", data.ScrollY)
}
