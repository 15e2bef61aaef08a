package core

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment keys consulted for defaults.
const (
	EnvOutput     = "SLACKDUMP_RENDER_OUTPUT"
	EnvWorkers    = "SLACKDUMP_RENDER_WORKERS"
	EnvOnlyPublic = "SLACKDUMP_RENDER_ONLY_PUBLIC"
	EnvLogLevel   = "SLACKDUMP_RENDER_LOG_LEVEL"
)

// Config holds render settings. Command-line flags override it.
type Config struct {
	Output     string   `yaml:"output"`
	OnlyPublic bool     `yaml:"only_public"`
	Channels   []string `yaml:"channels"`
	Workers    int      `yaml:"workers"`
	NoIndex    bool     `yaml:"no_index"`
	LogLevel   string   `yaml:"log_level"`
	Ignore     []string `yaml:"ignore"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Workers:  1,
		LogLevel: "info",
		Ignore:   []string{".*"},
	}
}

// LoadConfig layers defaults, environment (process env over envFile) and the
// YAML file at configPath. Missing files are not an error.
func LoadConfig(configPath, envFile string) (Config, error) {
	config := DefaultConfig()

	env, err := readEnv(envFile)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&config, env); err != nil {
		return Config{}, err
	}

	if configPath == "" {
		return config, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return config, nil
}

func readEnv(envFile string) (map[string]string, error) {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		for key, value := range fileValues {
			values[key] = value
		}
	}
	for _, key := range []string{EnvOutput, EnvWorkers, EnvOnlyPublic, EnvLogLevel} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}
	return values, nil
}

func applyEnv(config *Config, env map[string]string) error {
	if value := strings.TrimSpace(env[EnvOutput]); value != "" {
		config.Output = value
	}
	if value := strings.TrimSpace(env[EnvLogLevel]); value != "" {
		config.LogLevel = value
	}
	if value := strings.TrimSpace(env[EnvWorkers]); value != "" {
		workers, err := strconv.Atoi(value)
		if err != nil || workers <= 0 {
			return fmt.Errorf("invalid %s: %s", EnvWorkers, value)
		}
		config.Workers = workers
	}
	if value := strings.TrimSpace(env[EnvOnlyPublic]); value != "" {
		onlyPublic, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", EnvOnlyPublic, value)
		}
		config.OnlyPublic = onlyPublic
	}
	return nil
}
