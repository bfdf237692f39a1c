// Package widgets walks a parsed markup tree and emits the addressable widgets
// of one scope, resolving embedded partials through a caller-supplied resolver.
package widgets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/markup"
)

// presentationAttrs are copied when present, in this order.
var presentationAttrs = []string{"dataset", "caption", "datafield", "type", "iconclass"}

// PartialResolver expands a partial referenced from the current scope.
// ok=false means the expansion was refused (cycle or depth limit) and the
// host widget keeps no nested context.
type PartialResolver interface {
	ResolvePartial(ctx context.Context, name string) (pc *PartialContext, ok bool)
}

// Extractor turns element trees into widget mappings.
type Extractor struct {
	events []glob.Glob
	logger *slog.Logger
}

// NewExtractor creates an extractor that treats attributes matching any of
// eventPatterns as event bindings.
func NewExtractor(eventPatterns []string, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	x := &Extractor{logger: logger}
	for _, p := range eventPatterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile event pattern %q: %w", p, err)
		}
		x.events = append(x.events, g)
	}
	return x, nil
}

// Extract visits every element of doc in document order and returns the
// emitted widgets keyed by name. A later widget with a repeated name replaces
// the earlier one in place.
func (x *Extractor) Extract(ctx context.Context, doc *markup.Document, resolver PartialResolver) *Widgets {
	out := NewWidgets()
	if doc == nil || doc.Root == nil {
		return out
	}

	// names collected by list-like parents; never emitted at top level
	claimed := make(map[string]bool)

	for _, el := range doc.Root.Descendants() {
		class := Classify(el.Tag)
		if class == ClassStructural || class == ClassChildOnly {
			continue
		}
		name := el.Name()
		if name == "" || claimed[name] {
			continue
		}

		w := x.widgetOf(el, name)

		if class == ClassPartialHost || class == ClassContainer {
			if content, ok := el.Attr("content"); ok && strings.TrimSpace(content) != "" {
				w.Partial = x.partialOf(ctx, el, strings.TrimSpace(content), resolver)
				w.Attributes.Set("type", "partial")
			}
		}
		if class == ClassContainer && w.Partial == nil {
			continue
		}

		if class == ClassDataBearing {
			x.collectChildren(el, w, claimed)
		}

		out.Set(name, w)
	}
	return out
}

func (x *Extractor) widgetOf(el *markup.Element, name string) *Widget {
	w := newWidget(name, Category(el.Tag))
	for _, key := range presentationAttrs {
		if v, ok := el.Attr(key); ok {
			w.Attributes.Set(key, v)
		}
	}
	for _, a := range el.Attrs {
		if x.isEvent(a.Key) {
			w.Events.Set(a.Key, a.Val)
		}
	}
	return w
}

func (x *Extractor) isEvent(key string) bool {
	for _, g := range x.events {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// partialOf records the host's direct parameter children and asks the
// resolver for the partial's own context.
func (x *Extractor) partialOf(ctx context.Context, el *markup.Element, content string, resolver PartialResolver) *PartialRef {
	ref := &PartialRef{Content: content, Params: []PartialParam{}}
	for _, c := range el.Children {
		if c.Tag != "wm-param" {
			continue
		}
		typ, _ := c.Attr("type")
		ref.Params = append(ref.Params, PartialParam{Name: c.Name(), Type: typ})
	}

	if resolver == nil {
		return ref
	}
	pc, ok := resolver.ResolvePartial(ctx, content)
	if !ok {
		x.logger.Debug("partial expansion dropped", slog.String("partial", content))
		return ref
	}
	ref.Context = pc
	return ref
}

// collectChildren runs the secondary pass of a data-bearing widget.
func (x *Extractor) collectChildren(el *markup.Element, w *Widget, claimed map[string]bool) {
	rule := ruleFor(el.Tag)
	children := orderedmap.New[string, *Child]()

	for _, c := range el.Descendants() {
		if Classify(c.Tag) == ClassStructural {
			continue
		}
		if rule.only != "" && c.Tag != rule.only {
			continue
		}
		key := c.Name()
		caption, hasCaption := c.Attr("caption")
		if key == "" {
			key = caption
		}
		if key == "" {
			continue
		}

		child := &Child{Category: Category(c.Tag)}
		if hasCaption {
			child.Caption = caption
		}
		if v, ok := c.Attr("widget"); ok {
			child.Widget = v
		} else if v, ok := c.Attr("type"); ok {
			child.Type = v
		}

		if rule.claims {
			claimed[key] = true
		}
		children.Set(key, child)
	}

	if children.Len() > 0 {
		w.Group = rule.key
		w.Children = children
	}
}

// Category is a tag name without its namespace prefix.
func Category(tag string) string {
	local := tag
	if i := strings.LastIndex(local, ":"); i >= 0 {
		local = local[i+1:]
	}
	local = strings.TrimPrefix(local, "wm-")
	if local == "" {
		return tag
	}
	return local
}
