package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration. An
// empty path falls back to config.yml in the working directory.
func LoadAppConfig(path string) error {
	paths := []string{"config.yml", "globetrotter.yml"}
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	Config = cfg
	applyDefaults(&Config)
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Dataset.RecorderPrefix == "" {
		cfg.Dataset.RecorderPrefix = "daisy"
	}
	if cfg.Export.GapSeconds == 0 {
		cfg.Export.GapSeconds = 60
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}
	if cfg.Export.LineWidth == 0 {
		cfg.Export.LineWidth = 6
	}
}
