package widgets

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/variables"
)

// Widgets maps widget name to widget, in document order.
type Widgets = orderedmap.OrderedMap[string, *Widget]

// NewWidgets returns an empty mapping.
func NewWidgets() *Widgets {
	return orderedmap.New[string, *Widget]()
}

// PartialContext is everything extracted from one page or partial.
type PartialContext struct {
	Widgets   *Widgets       `json:"Widgets"`
	Variables *variables.Set `json:"Variables"`
	Actions   *variables.Set `json:"Actions"`
}

// EmptyPartialContext returns a context with no widgets, variables or actions.
func EmptyPartialContext() *PartialContext {
	return &PartialContext{
		Widgets:   NewWidgets(),
		Variables: variables.NewSet(),
		Actions:   variables.NewSet(),
	}
}

// PartialParam is a parameter passed from a host widget into its partial.
type PartialParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PartialRef is the partial embedded by a host widget.
// Context is nil when the expansion was dropped by the recursion guard.
type PartialRef struct {
	Content string
	Params  []PartialParam
	Context *PartialContext
}

// Child is a descendant recorded under a data-bearing widget.
type Child struct {
	Category string `json:"category"`
	Caption  string `json:"caption,omitempty"`
	Widget   string `json:"widget,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Widget is one addressable UI element.
type Widget struct {
	Name     string
	Category string

	// Attributes holds the allow-listed presentation attributes that were present.
	Attributes *orderedmap.OrderedMap[string, string]
	// Events holds event-binding attributes verbatim.
	Events *orderedmap.OrderedMap[string, string]

	Partial *PartialRef

	// Group is the key Children is emitted under.
	Group    string
	Children *orderedmap.OrderedMap[string, *Child]
}

func newWidget(name, category string) *Widget {
	return &Widget{
		Name:       name,
		Category:   category,
		Attributes: orderedmap.New[string, string](),
		Events:     orderedmap.New[string, string](),
	}
}

// MarshalJSON flattens the widget into a single object: category, attributes,
// events, partial fields, then the child grouping. Name is the enclosing key.
func (w *Widget) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	out.Set("category", w.Category)

	for _, m := range []*orderedmap.OrderedMap[string, string]{w.Attributes, w.Events} {
		if m == nil {
			continue
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}

	if p := w.Partial; p != nil {
		params := p.Params
		if params == nil {
			params = []PartialParam{}
		}
		out.Set("partialParams", params)
		out.Set("content", p.Content)
		if p.Context != nil {
			out.Set("Widgets", p.Context.Widgets)
			out.Set("Variables", p.Context.Variables)
			out.Set("Actions", p.Context.Actions)
		}
	}

	if w.Children != nil && w.Children.Len() > 0 {
		out.Set(w.Group, w.Children)
	}

	return json.Marshal(out)
}
