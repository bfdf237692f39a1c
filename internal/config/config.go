package config

import "time"

// Config represents the complete extractor configuration.
// It can be loaded from .appcontext/config.yml with environment variable overrides.
type Config struct {
	Remote     RemoteConfig     `yaml:"remote" mapstructure:"remote"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
}

// RemoteConfig configures access to the designer's metadata services.
type RemoteConfig struct {
	Origin     string        `yaml:"origin" mapstructure:"origin"`           // base URL, e.g. "https://www.wavemakeronline.com"
	AuthCookie string        `yaml:"auth_cookie" mapstructure:"auth_cookie"` // cookie name carrying the credential
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`         // per request; 0 waits forever
}

// ExtractionConfig tunes the widget and partial walk.
type ExtractionConfig struct {
	CommonPage      string   `yaml:"common_page" mapstructure:"common_page"`             // shared page merged into App
	MaxPartialDepth int      `yaml:"max_partial_depth" mapstructure:"max_partial_depth"` // nested partial expansion limit
	EventAttributes []string `yaml:"event_attributes" mapstructure:"event_attributes"`   // glob patterns for event bindings
}

// CacheConfig controls the per-run response memo.
// Disabled by default: identical requests within a run are repeated.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity int  `yaml:"capacity" mapstructure:"capacity"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Origin:     "https://www.wavemakeronline.com",
			AuthCookie: "auth_cookie",
			Timeout:    0,
		},
		Extraction: ExtractionConfig{
			CommonPage:      "Common",
			MaxPartialDepth: 16,
			EventAttributes: []string{"on-*"},
		},
		Cache: CacheConfig{
			Enabled:  false,
			Capacity: 1024,
		},
	}
}
