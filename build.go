package scrollscene

const (
	StateRunning State = iota
	StateExiting
)

// BuildApp assembles the windowed scene from cfg. The module order matters:
// every module finds the resources installed before it.
func BuildApp(cfg Config) *App {
	return NewAppBuilder().
		UseStates(StateRunning, StateExiting).
		UseModules(
			LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			TimeModule{},
			PlatformWindowModule{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title},
			AssetServerModule{},
			SceneModule{Config: cfg},
			MeshRendererModule{},
			TrackerModule{Config: cfg},
			InputModule{Config: cfg.Input},
			AnimatorModule{Config: cfg},
			SessionModule{AppName: "scrollscene", Restore: cfg.Input.RestoreScroll},
		).
		Build()
}

// BuildHeadlessApp assembles the scene without a window, renderer, input or
// session storage. The clock reads from source.
func BuildHeadlessApp(cfg Config, source func() float64) *App {
	return NewAppBuilder().
		UseStates(StateRunning, StateExiting).
		UseModules(
			LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			TimeModule{Source: source},
			AssetServerModule{},
			SceneModule{Config: cfg},
			TrackerModule{Config: cfg},
			AnimatorModule{Config: cfg},
		).
		Build()
}
