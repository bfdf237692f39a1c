package appcontext

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/markup"
	"github.com/mvp-joe/wm-appcontext/internal/widgets"
)

// Request identifies the page to extract.
type Request struct {
	ProjectID string
	PageName  string
}

// Document is the serialized result of one extraction.
type Document struct {
	AppContext     *AppContext `json:"appContext"`
	ProjectDetails *Metadata   `json:"projectDetails"`
}

// AppContext is the assistant-facing context of one page.
type AppContext struct {
	// Scope is the detected kind of the requested document; Section is emitted under it.
	Scope   markup.Scope
	Section *widgets.PartialContext

	// App is set only for non-prefab pages whose shared sections were both available.
	App *widgets.PartialContext
	// Configuration is set only for prefabs.
	Configuration *Configuration

	MetaData *Metadata
	Prefabs  []Prefab
}

// MarshalJSON emits the scoped section first, then App or configuration,
// metaData and prefabs. Absent optional sections are omitted.
func (c *AppContext) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	out.Set(string(c.Scope), c.Section)
	if c.App != nil {
		out.Set("App", c.App)
	}
	if c.Configuration != nil {
		out.Set("configuration", c.Configuration)
	}
	out.Set("metaData", c.MetaData)
	if len(c.Prefabs) > 0 {
		out.Set("prefabs", c.Prefabs)
	}
	return json.Marshal(out)
}

// Metadata describes the project and the requested page.
type Metadata struct {
	ProjectName string `json:"projectName,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
	PageName    string `json:"pageName"`
	PageType    string `json:"pageType"`
}

// Configuration is a prefab's own declared contract.
type Configuration struct {
	Properties json.RawMessage `json:"Properties"`
	Methods    json.RawMessage `json:"Methods"`
	Events     json.RawMessage `json:"Events"`
}

// Prefab is a prefab used on the page together with its exposed contract.
type Prefab struct {
	Name       string                              `json:"name"`
	Properties json.RawMessage                     `json:"properties"`
	Methods    json.RawMessage                     `json:"methods"`
	Events     *orderedmap.OrderedMap[string, any] `json:"events"`
}

// EventDescription documents a synthesized lifecycle event.
type EventDescription struct {
	Description string `json:"description"`
}
