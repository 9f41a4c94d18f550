package config

var Presets = map[string]*Config{
	"vacuum": {
		Integrator: "rk45", Dt: 0.001, Tolerance: 1e-6, MaxFlightTime: 600,
		Launch: LaunchConfig{Speed: 100, Angle: 0.7853981633974483},
		Params: ParamsConfig{Drag: 0, Gravity: 9.81, Wind: 0},
		Sampling: SamplingConfig{Interval: 1.0 / 60.0, Jitter: 0.05},
	},
	"baseball": {
		Integrator: "rk45", Dt: 0.001, Tolerance: 1e-6, MaxFlightTime: 60,
		Launch: LaunchConfig{Speed: 45, Angle: 0.6},
		Params: ParamsConfig{Drag: 0.005, Gravity: 9.81, Wind: 0},
		Sampling: SamplingConfig{Interval: 1.0 / 60.0, Jitter: 0.05},
	},
	"mortar": {
		Integrator: "rk45", Dt: 0.001, Tolerance: 1e-6, MaxFlightTime: 120,
		Launch: LaunchConfig{Speed: 70, Angle: 1.2},
		Params: ParamsConfig{Drag: 0.001, Gravity: 9.81, Wind: 0},
		Sampling: SamplingConfig{Interval: 1.0 / 60.0, Jitter: 0.05},
	},
	"headwind": {
		Integrator: "rk45", Dt: 0.001, Tolerance: 1e-6, MaxFlightTime: 120,
		Launch: LaunchConfig{Speed: 100, Angle: 0.7853981633974483},
		Params: ParamsConfig{Drag: 0.002, Gravity: 9.81, Wind: -10},
		Sampling: SamplingConfig{Interval: 1.0 / 60.0, Jitter: 0.05},
	},
	"tailwind": {
		Integrator: "rk45", Dt: 0.001, Tolerance: 1e-6, MaxFlightTime: 120,
		Launch: LaunchConfig{Speed: 100, Angle: 0.7853981633974483},
		Params: ParamsConfig{Drag: 0.002, Gravity: 9.81, Wind: 10},
		Sampling: SamplingConfig{Interval: 1.0 / 60.0, Jitter: 0.05},
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
