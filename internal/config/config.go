package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names an alternate settings file.
const EnvConfigPath = "EXPIREMAP_CONFIG"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "expiremap.yaml"

// Settings represents configuration loaded from expiremap.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	// DefaultTTL is a Go duration string ("250ms", "1m"). Empty or "none"
	// means entries stored without a TTL never expire.
	DefaultTTL string `yaml:"default_ttl"`
	LogFormat  string `yaml:"log_format"`
	Prompt     string `yaml:"prompt"`
}

const (
	defaultLogFormat = "text"
	defaultPrompt    = "> "
)

// Defaults returns settings used when no file is found.
func Defaults() Settings {
	return Settings{
		LogFormat: defaultLogFormat,
		Prompt:    defaultPrompt,
	}
}

// Load reads settings using the documented lookup order (first found wins):
// 1) path, when non-empty (missing file is an error)
// 2) $EXPIREMAP_CONFIG (missing file is an error)
// 3) ./expiremap.yaml (optional)
func Load(path string) (Settings, error) {
	required := true
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultFile
		required = false
	}

	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if s.LogFormat == "" {
		s.LogFormat = defaultLogFormat
	}
	if s.Prompt == "" {
		s.Prompt = defaultPrompt
	}
	if _, err := s.TTL(); err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	switch s.LogFormat {
	case "json", "text":
	default:
		return Settings{}, fmt.Errorf("config %s: log_format %q: want json or text", path, s.LogFormat)
	}
	return s, nil
}

// TTL returns the parsed default TTL. A malformed value is an error rather
// than "no expiry", so hand-built Settings fail loudly.
func (s Settings) TTL() (mo.Option[time.Duration], error) {
	d, err := ParseTTL(s.DefaultTTL)
	if err != nil {
		return mo.None[time.Duration](), fmt.Errorf("default_ttl %q: %w", s.DefaultTTL, err)
	}
	return d, nil
}

// ParseTTL parses a duration string. "" and "none" mean no TTL.
// Negative durations are accepted; the map clamps them to zero.
func ParseTTL(raw string) (mo.Option[time.Duration], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return mo.None[time.Duration](), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return mo.None[time.Duration](), err
	}
	return mo.Some(d), nil
}
