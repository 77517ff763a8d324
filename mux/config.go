package mux

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds the router settings that can be loaded from YAML.
type Config struct {
	// MaxForwards is how many forwards a single request may do.
	MaxForwards int `yaml:"max_forwards"`

	// StripCacheBusters removes cache buster codes from paths before routing.
	StripCacheBusters bool `yaml:"strip_cache_busters"`

	// DefaultLanguage is used for messages when the client accepts no known
	// language.
	DefaultLanguage string `yaml:"default_language"`

	// Messages maps a language tag to message keys and their text.
	Messages map[string]map[string]string `yaml:"messages"`
}

// DefaultConfig returns the settings of a new Router.
func DefaultConfig() Config {
	return Config{
		MaxForwards:     DefaultMaxForwards,
		DefaultLanguage: "en",
	}
}

// LoadConfig decodes a YAML document over the default settings. Unknown
// fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("mux: decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (cfg Config) Validate() error {
	if cfg.MaxForwards < 0 {
		return fmt.Errorf("mux: max_forwards must not be negative, got %d", cfg.MaxForwards)
	}

	if cfg.DefaultLanguage != "" {
		if _, err := language.Parse(cfg.DefaultLanguage); err != nil {
			return fmt.Errorf("mux: invalid default_language %q: %w", cfg.DefaultLanguage, err)
		}
	}

	for lang := range cfg.Messages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("mux: invalid message language %q: %w", lang, err)
		}
	}
	return nil
}

// NewRouterFromConfig returns a router configured from cfg.
func NewRouterFromConfig(cfg Config) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fallback := language.English
	if cfg.DefaultLanguage != "" {
		fallback = language.MustParse(cfg.DefaultLanguage)
	}

	dict := NewMessageDictionary(fallback)
	for lang, messages := range cfg.Messages {
		tag := language.MustParse(lang)
		for key, msg := range messages {
			dict.Add(tag, key, msg)
		}
	}

	r := NewRouter()
	r.SetMaxForwards(cfg.MaxForwards).
		StripCacheBusters(cfg.StripCacheBusters).
		SetDictionary(dict)
	return r, nil
}
