package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		PerGame  int    `yaml:"perGame"`
		PoolSize int    `yaml:"poolSize"`
		TTL      string `yaml:"ttl"`
	} `yaml:"questions"`
	Game struct {
		QuestionTimeLimit string  `yaml:"questionTimeLimit"`
		QuestionLeadIn    string  `yaml:"questionLeadIn"`
		StartDelay        string  `yaml:"startDelay"`
		ResetDelay        string  `yaml:"resetDelay"`
		BaseScore         int     `yaml:"baseScore"`
		MaxTimeBonus      int     `yaml:"maxTimeBonus"`
		ComboBonusStep    int     `yaml:"comboBonusStep"`
		MaxComboBonus     int     `yaml:"maxComboBonus"`
		GradeFactor       float64 `yaml:"gradeFactor"`
		XPPerCorrect      int     `yaml:"xpPerCorrect"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
