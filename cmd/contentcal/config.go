package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/vivaneiona/contentcal"
)

const defaultConfigFile = "contentcal.yaml"

// settings is the resolved CLI configuration.
// Precedence: flags > environment > config file > defaults.
type settings struct {
	Model       string        `yaml:"model"`
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Temperature *float64      `yaml:"temperature"`
	Output      string        `yaml:"output"`
	LogLevel    string        `yaml:"log_level"`
	Retries     int           `yaml:"retries"`
	Timeout     time.Duration `yaml:"timeout"`
}

func defaultSettings() settings {
	return settings{
		Model:    contentcal.DefaultProvider + "/" + contentcal.DefaultModel,
		LogLevel: "info",
		Retries:  1,
	}
}

// loadEnv loads .env and .env.dev from the working directory, later files winning.
func loadEnv(log *slog.Logger) []string {
	var loaded []string
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			log.Warn("failed to load env file", "file", file, "error", err)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		log.Debug("no local env files loaded; relying on process environment")
	} else {
		log.Debug("loaded env files", "files", strings.Join(loaded, ", "))
	}
	return loaded
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string) (*float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// readConfigFile merges the YAML file at path into s. A missing file is an
// error only when the path was given explicitly.
func readConfigFile(s *settings, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(s *settings) error {
	s.Model = getEnv("CONTENTCAL_MODEL", s.Model)
	s.Endpoint = getEnv("CONTENTCAL_ENDPOINT", s.Endpoint)
	s.APIKey = getEnv("CONTENTCAL_API_KEY", s.APIKey)
	s.Output = getEnv("CONTENTCAL_OUTPUT", s.Output)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)

	var errs []error
	t, err := getEnvFloat("CONTENTCAL_TEMPERATURE")
	errs = append(errs, err)
	if t != nil {
		s.Temperature = t
	}
	s.Retries, err = getEnvInt("CONTENTCAL_RETRIES", s.Retries)
	errs = append(errs, err)
	return errors.Join(errs...)
}

// applyFlags overrides s with every flag the user actually set.
func applyFlags(s *settings, flags *pflag.FlagSet) error {
	var errs []error
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("model", &s.Model)
	str("endpoint", &s.Endpoint)
	str("api-key", &s.APIKey)
	str("output", &s.Output)

	if f := flags.Lookup("temperature"); f != nil && f.Changed {
		t, err := strconv.ParseFloat(f.Value.String(), 64)
		errs = append(errs, err)
		s.Temperature = &t
	}
	if f := flags.Lookup("retries"); f != nil && f.Changed {
		n, err := strconv.Atoi(f.Value.String())
		errs = append(errs, err)
		s.Retries = n
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		d, err := time.ParseDuration(f.Value.String())
		errs = append(errs, err)
		s.Timeout = d
	}
	if f := flags.Lookup("verbose"); f != nil && f.Changed && f.Value.String() == "true" {
		s.LogLevel = "debug"
	}
	return errors.Join(errs...)
}

// resolveSettings builds the effective settings from all sources.
func resolveSettings(configPath string, flags *pflag.FlagSet) (settings, error) {
	s := defaultSettings()
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigFile
	}
	if err := readConfigFile(&s, configPath, explicit); err != nil {
		return s, err
	}
	if err := applyEnv(&s); err != nil {
		return s, err
	}
	if flags != nil {
		if err := applyFlags(&s, flags); err != nil {
			return s, err
		}
	}
	return s, nil
}

// modelConfig turns the settings into a contentcal.ModelConfig.
func (s settings) modelConfig() (contentcal.ModelConfig, error) {
	cfg, err := contentcal.ParseModelSpec(s.Model)
	if err != nil {
		return cfg, err
	}
	if s.Endpoint != "" {
		cfg.Endpoint = s.Endpoint
	}
	if s.APIKey != "" {
		cfg.APIKey = s.APIKey
	}
	if s.Temperature != nil {
		cfg.Temperature = *s.Temperature
	}
	return cfg, nil
}

func (s settings) level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
