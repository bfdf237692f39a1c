package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidOrigin indicates a missing or non-absolute origin URL
	ErrInvalidOrigin = errors.New("invalid remote origin")

	// ErrEmptyAuthCookie indicates a missing credential cookie name
	ErrEmptyAuthCookie = errors.New("empty auth cookie name")

	// ErrInvalidTimeout indicates a negative request timeout
	ErrInvalidTimeout = errors.New("invalid remote timeout")

	// ErrEmptyCommonPage indicates a missing shared page name
	ErrEmptyCommonPage = errors.New("empty common page")

	// ErrInvalidDepth indicates a non-positive partial depth limit
	ErrInvalidDepth = errors.New("invalid max partial depth")

	// ErrInvalidPattern indicates an event attribute pattern that does not compile
	ErrInvalidPattern = errors.New("invalid event attribute pattern")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateRemote(&cfg.Remote); err != nil {
		errs = append(errs, err)
	}

	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}

	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateRemote(cfg *RemoteConfig) error {
	var errs []error

	u, err := url.Parse(strings.TrimSpace(cfg.Origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: must be an absolute URL, got '%s'", ErrInvalidOrigin, cfg.Origin))
	}

	if strings.TrimSpace(cfg.AuthCookie) == "" {
		errs = append(errs, fmt.Errorf("%w: auth_cookie is required", ErrEmptyAuthCookie))
	}

	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.CommonPage) == "" {
		errs = append(errs, fmt.Errorf("%w: common_page is required", ErrEmptyCommonPage))
	}

	if cfg.MaxPartialDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidDepth, cfg.MaxPartialDepth))
	}

	for _, pattern := range cfg.EventAttributes {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCache(cfg *CacheConfig) error {
	// Capacity only matters when the memo is on
	if cfg.Enabled && cfg.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive when enabled, got %d", ErrInvalidCacheSettings, cfg.Capacity)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	// one %w per error keeps every sentinel reachable through errors.Is
	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}

	return fmt.Errorf("validation failed:"+strings.Repeat("\n  - %w", len(errs)), args...)
}
