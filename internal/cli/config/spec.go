package config

// CLIConfig is the preferences file layout. Field names follow the
// global flag names.
type CLIConfig struct {
	Config    string `koanf:"config" json:"config" yaml:"config"`
	ConfigDir string `koanf:"config_dir" json:"config_dir,omitempty" yaml:"config_dir,omitempty"`
	Output    string `koanf:"output" json:"output" yaml:"output"`
	Wide      bool   `koanf:"wide" json:"wide,omitempty" yaml:"wide,omitempty"`
	LogLevel  string `koanf:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat string `koanf:"log_format" json:"log_format" yaml:"log_format"`
}

// Default returns the built-in preferences.
func Default() *CLIConfig {
	return &CLIConfig{
		Config:    "hat",
		Output:    "table",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// FlagValues maps global flag names to the preference values, skipping
// zero values.
func (c *CLIConfig) FlagValues() map[string]string {
	out := make(map[string]string)
	set := func(name, v string) {
		if v != "" {
			out[name] = v
		}
	}
	set("config", c.Config)
	set("config-dir", c.ConfigDir)
	set("output", c.Output)
	set("log-level", c.LogLevel)
	set("log-format", c.LogFormat)
	if c.Wide {
		out["wide"] = "true"
	}
	return out
}
