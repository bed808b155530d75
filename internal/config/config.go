// Package config handles randomizer configuration loading and management.
package config

import "github.com/Faultbox/godo/pkg/scene"

// Config holds all randomizer settings.
type Config struct {
	Randomizer RandomizerConfig `yaml:"randomizer"`
	Options    scene.Options    `yaml:"options"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RandomizerConfig controls the run itself.
type RandomizerConfig struct {
	// Seed of the master random stream. Zero picks a seed from the clock.
	Seed int64 `yaml:"seed" env:"GODO_SEED"`
	// Workers is the number of records processed at once; 1 is sequential.
	Workers       int `yaml:"workers" env:"GODO_WORKERS"`
	MaxModelDraws int `yaml:"max_model_draws" env:"GODO_MAX_MODEL_DRAWS"`
}

// DataConfig holds input and output file paths.
type DataConfig struct {
	Scene         string `yaml:"scene" env:"GODO_SCENE"`                   // scene table or section archive
	Camera        string `yaml:"camera" env:"GODO_CAMERA"`                 // idle camera positions
	InitialCamera string `yaml:"initial_camera" env:"GODO_INITIAL_CAMERA"` // one camera index per formation
	Catalog       string `yaml:"catalog" env:"GODO_CATALOG"`
	Output        string `yaml:"output" env:"GODO_OUTPUT"`
	History       string `yaml:"history" env:"GODO_HISTORY"` // run log database, empty disables it
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"GODO_LOG_LEVEL"`
	LogFile string `yaml:"log_file" env:"GODO_LOG_FILE"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Randomizer: RandomizerConfig{
			Workers:       1,
			MaxModelDraws: scene.DefaultMaxModelDraws,
		},
		Data: DataConfig{
			Scene:   "scene.bin",
			Catalog: "catalog.yaml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
