// Package appcontext extracts the application context of a designer page so
// an assistant can reason about it: the page's widgets with their bindings,
// its variables and actions, the shared App section or prefab configuration,
// the prefabs it uses, and project metadata.
//
// Build fetches everything from the designer's metadata service and returns
// one JSON document. Missing upstream data never fails a build.
package appcontext

import (
	"context"
	"log/slog"

	"github.com/mvp-joe/wm-appcontext/internal/appcontext"
	"github.com/mvp-joe/wm-appcontext/internal/config"
	"github.com/mvp-joe/wm-appcontext/internal/remote"
)

// Config configures the metadata service connection and extraction limits.
type Config = config.Config

// Errors returned for an invalid request.
var (
	ErrMissingProject = appcontext.ErrMissingProject
	ErrMissingPage    = appcontext.ErrMissingPage
)

// Request identifies the page to extract and the caller's session credential.
type Request struct {
	ProjectID  string
	PageName   string
	Credential string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads .appcontext/config.yml under dir with APPCONTEXT_*
// environment overrides.
func LoadConfig(dir string) (*Config, error) {
	return config.LoadConfigFromDir(dir)
}

// Build extracts the context of req and returns it as JSON. A nil cfg uses
// DefaultConfig and a nil logger uses slog.Default().
func Build(ctx context.Context, cfg *Config, req Request, logger *slog.Logger) ([]byte, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := remote.NewHTTPFetcher(remote.HTTPOptions{
		Origin:     cfg.Remote.Origin,
		AuthCookie: cfg.Remote.AuthCookie,
		Credential: req.Credential,
		Timeout:    cfg.Remote.Timeout,
		Logger:     logger,
	})

	a, err := appcontext.NewAssembler(cfg, fetcher, logger)
	if err != nil {
		return nil, err
	}
	return a.Build(ctx, appcontext.Request{ProjectID: req.ProjectID, PageName: req.PageName})
}
