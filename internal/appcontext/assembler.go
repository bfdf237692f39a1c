// Package appcontext assembles the application context of a page: its own
// widgets, variables and actions, the shared App section or the prefab
// configuration, the prefabs it uses, and project metadata.
//
// Assembly never fails on missing upstream data. Every fetch that yields
// nothing degrades to an empty or omitted section.
package appcontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/cache"
	"github.com/mvp-joe/wm-appcontext/internal/config"
	"github.com/mvp-joe/wm-appcontext/internal/markup"
	"github.com/mvp-joe/wm-appcontext/internal/remote"
	"github.com/mvp-joe/wm-appcontext/internal/variables"
	"github.com/mvp-joe/wm-appcontext/internal/widgets"
)

var (
	// ErrMissingProject indicates an empty project identifier
	ErrMissingProject = errors.New("missing project id")

	// ErrMissingPage indicates an empty page name
	ErrMissingPage = errors.New("missing page name")
)

// Lifecycle events every prefab exposes regardless of its descriptor.
var lifecycleEvents = []struct {
	name string
	desc string
}{
	{"onLoad", "triggers on load of prefab"},
	{"onDestroy", "triggers on destroy of prefab"},
}

// Assembler builds context documents from a metadata fetcher.
type Assembler struct {
	cfg       *config.Config
	fetcher   remote.Fetcher
	extractor *widgets.Extractor
	logger    *slog.Logger
}

// NewAssembler creates an assembler. A nil logger uses slog.Default().
func NewAssembler(cfg *config.Config, fetcher remote.Fetcher, logger *slog.Logger) (*Assembler, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	extractor, err := widgets.NewExtractor(cfg.Extraction.EventAttributes, logger)
	if err != nil {
		return nil, err
	}
	return &Assembler{cfg: cfg, fetcher: fetcher, extractor: extractor, logger: logger}, nil
}

// Build assembles the document for req and serializes it as JSON.
func (a *Assembler) Build(ctx context.Context, req Request) ([]byte, error) {
	doc, err := a.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize context: %w", err)
	}
	return data, nil
}

// Assemble builds the document for req. It returns an error only for an
// invalid request.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Document, error) {
	projectID := strings.TrimSpace(req.ProjectID)
	page := strings.TrimSpace(req.PageName)
	if projectID == "" {
		return nil, ErrMissingProject
	}
	if page == "" {
		return nil, ErrMissingPage
	}

	r := a.newRun(projectID, page)
	defer r.close()

	r.logger.Info("extracting page context")

	section, scope := r.extract(ctx, page, 0)
	ac := &AppContext{Scope: scope, Section: section}

	if scope == markup.ScopePrefab {
		ac.Configuration = r.configuration(ctx)
	} else {
		ac.App = r.appSection(ctx)
	}

	meta := r.metadata(ctx, page, scope)
	ac.MetaData = meta
	ac.Prefabs = r.prefabs(ctx, page)

	r.logger.Info("page context extracted",
		slog.String("scope", string(scope)),
		slog.Int("widgets", section.Widgets.Len()),
		slog.Bool("app", ac.App != nil),
		slog.Int("prefabs", len(ac.Prefabs)))

	return &Document{AppContext: ac, ProjectDetails: meta}, nil
}

// run holds the state of one Assemble call. Nothing in it outlives the call.
type run struct {
	cfg        *config.Config
	projectID  string
	client     *remote.Client
	classifier *variables.Classifier
	extractor  *widgets.Extractor
	memo       *cache.Cache
	// refs records which page or partial embeds which; it never holds a cycle
	refs   graph.Graph[string, string]
	logger *slog.Logger
}

func (a *Assembler) newRun(projectID, page string) *run {
	logger := a.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("project", projectID),
		slog.String("page", page))

	r := &run{
		cfg:       a.cfg,
		projectID: projectID,
		extractor: a.extractor,
		refs:      graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
		logger:    logger,
	}

	fetcher := a.fetcher
	if a.cfg.Cache.Enabled {
		memo, err := cache.New(fetcher, a.cfg.Cache.Capacity, logger)
		if err != nil {
			logger.Warn("response cache disabled", slog.Any("error", err))
		} else {
			r.memo = memo
			fetcher = memo
		}
	}

	r.client = remote.NewClient(fetcher, logger)
	r.classifier = variables.NewClassifier(r.client, projectID, logger)
	return r
}

func (r *run) close() {
	if r.memo != nil {
		r.memo.Close()
	}
}

// extract fetches one page or partial and extracts its widgets, variables
// and actions. A missing document yields an empty context scoped as a page.
func (r *run) extract(ctx context.Context, name string, depth int) (*widgets.PartialContext, markup.Scope) {
	doc, ok := r.client.PageDocument(ctx, r.projectID, name)
	if !ok {
		r.logger.Warn("page document unavailable", slog.String("document", name))
		return widgets.EmptyPartialContext(), markup.ScopePage
	}

	tree := markup.Parse(doc.Markup)
	ws := r.extractor.Extract(ctx, tree, &partialScope{run: r, parent: name, depth: depth})

	defs, ok := variables.ParseDefinitions(doc.Variables)
	if !ok {
		r.logger.Debug("no variable definitions", slog.String("document", name))
	}
	vars, actions := r.classifier.Classify(ctx, defs)

	return &widgets.PartialContext{Widgets: ws, Variables: vars, Actions: actions}, tree.Scope
}

// appSection merges the shared page's widgets with the project-level
// variables. Both must be available or the section is omitted.
func (r *run) appSection(ctx context.Context) *widgets.PartialContext {
	common := r.cfg.Extraction.CommonPage

	doc, ok := r.client.PageDocument(ctx, r.projectID, common)
	if !ok {
		r.logger.Info("App section omitted: shared page unavailable", slog.String("document", common))
		return nil
	}
	ws := r.extractor.Extract(ctx, markup.Parse(doc.Markup), &partialScope{run: r, parent: common})

	defs, ok := r.client.AppVariables(ctx, r.projectID)
	if !ok {
		r.logger.Info("App section omitted: project variables unavailable")
		return nil
	}
	vars, actions := r.classifier.Classify(ctx, defs)

	return &widgets.PartialContext{Widgets: ws, Variables: vars, Actions: actions}
}

// configuration returns the prefab's own contract. Missing descriptors
// yield null members rather than omitting the section.
func (r *run) configuration(ctx context.Context) *Configuration {
	cfg := &Configuration{}
	contract, ok := r.client.PrefabConfig(ctx, r.projectID)
	if !ok {
		r.logger.Warn("prefab configuration unavailable")
		return cfg
	}
	cfg.Properties = contract.Properties
	cfg.Methods = contract.Methods
	cfg.Events = contract.Events
	return cfg
}

func (r *run) metadata(ctx context.Context, page string, scope markup.Scope) *Metadata {
	meta := &Metadata{PageName: page, PageType: string(scope)}
	details, ok := r.client.ProjectDetails(ctx, r.projectID)
	if !ok {
		return meta
	}
	meta.ProjectName = details.DisplayName
	meta.ProjectType = details.PlatformType
	return meta
}

// prefabs lists the prefabs used on page with their contracts.
func (r *run) prefabs(ctx context.Context, page string) []Prefab {
	usages, ok := r.client.PrefabUsages(ctx, r.projectID, page)
	if !ok {
		return nil
	}

	var out []Prefab
	for pair := usages.Oldest(); pair != nil; pair = pair.Next() {
		cfg := pair.Value.Config
		out = append(out, Prefab{
			Name:       pair.Key,
			Properties: cfg.Properties,
			Methods:    cfg.Methods,
			Events:     prefabEvents(cfg.Events),
		})
	}
	return out
}

// prefabEvents decodes the declared events and appends the lifecycle events,
// replacing any declared ones of the same name.
func prefabEvents(raw json.RawMessage) *orderedmap.OrderedMap[string, any] {
	events := orderedmap.New[string, any]()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, events); err != nil {
			events = orderedmap.New[string, any]()
		}
	}
	for _, e := range lifecycleEvents {
		events.Delete(e.name)
		events.Set(e.name, EventDescription{Description: e.desc})
	}
	return events
}
