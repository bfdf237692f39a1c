// Package variables splits a page's raw variable definitions into data
// Variables and side-effecting Actions, projecting each entry to the fields
// an assistant needs for its category.
package variables

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/markup"
	"github.com/mvp-joe/wm-appcontext/internal/remote"
)

// SchemaSource looks up the schemas behind service-backed variables.
type SchemaSource interface {
	ServiceDefinitions(ctx context.Context, projectID, service string) (remote.ServiceDefinitions, bool)
	ServiceTypes(ctx context.Context, projectID, service string) (*remote.TypeSchema, bool)
}

// Classifier projects raw definitions of one project.
type Classifier struct {
	schemas   SchemaSource
	projectID string
	logger    *slog.Logger
}

// NewClassifier creates a classifier. A nil logger uses slog.Default().
func NewClassifier(schemas SchemaSource, projectID string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{schemas: schemas, projectID: projectID, logger: logger}
}

// definition is the subset of a raw variable definition the projections read.
type definition struct {
	Category      string    `mapstructure:"category"`
	Type          string    `mapstructure:"type"`
	DataSet       any       `mapstructure:"dataSet"`
	Operation     string    `mapstructure:"operation"`
	PageName      string    `mapstructure:"pageName"`
	Delay         int       `mapstructure:"delay"`
	Service       string    `mapstructure:"service"`
	OperationID   string    `mapstructure:"operationId"`
	DataBinding   []binding `mapstructure:"dataBinding"`
	PropertiesMap struct {
		Columns []column `mapstructure:"columns"`
	} `mapstructure:"propertiesMap"`
}

type binding struct {
	Target string `mapstructure:"target"`
	Value  any    `mapstructure:"value"`
}

type column struct {
	FieldName string `mapstructure:"fieldName"`
}

// ParseDefinitions decodes a page's transport-encoded variables string.
// Undecodable input yields an empty mapping and ok=false.
func ParseDefinitions(encoded string) (*remote.Definitions, bool) {
	defs := orderedmap.New[string, any]()
	raw := strings.TrimSpace(markup.DecodeVariables(encoded))
	if raw == "" {
		return defs, false
	}
	if err := json.Unmarshal([]byte(raw), defs); err != nil {
		return orderedmap.New[string, any](), false
	}
	return defs, true
}

// Classify partitions defs into Variables and Actions. Every input name lands
// in exactly one of the two sets, in input order.
func (c *Classifier) Classify(ctx context.Context, defs *remote.Definitions) (vars, actions *Set) {
	vars, actions = NewSet(), NewSet()
	if defs == nil {
		return vars, actions
	}

	for pair := defs.Oldest(); pair != nil; pair = pair.Next() {
		def := c.decode(pair.Key, pair.Value)
		entry := c.project(ctx, pair.Key, def)
		if entry.Kind().IsAction() {
			actions.Set(pair.Key, entry)
		} else {
			vars.Set(pair.Key, entry)
		}
	}
	return vars, actions
}

// decode reads a raw definition leniently; fields that fail to decode are
// left zero and the rest are kept.
func (c *Classifier) decode(name string, raw any) definition {
	var def definition
	m, ok := raw.(map[string]any)
	if !ok {
		c.logger.Warn("variable definition is not an object", slog.String("variable", name))
		return def
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &def,
	})
	if err != nil {
		return def
	}
	if err := decoder.Decode(m); err != nil {
		c.logger.Warn("partially decoded variable definition",
			slog.String("variable", name), slog.Any("error", err))
	}
	return def
}

func (c *Classifier) project(ctx context.Context, name string, def definition) Entry {
	category := baseCategory(def.Category)
	if kind, ok := actionKinds[category]; ok {
		return projectAction(kind, def)
	}

	switch {
	case category == "Variable":
		return DataVariable{Type: def.Type, DataSet: def.DataSet, Category: def.Category}
	case def.Service != "" && def.OperationID != "":
		return c.serviceVariable(ctx, name, def)
	case category == "LiveVariable":
		columns := make([]string, 0, len(def.PropertiesMap.Columns))
		for _, col := range def.PropertiesMap.Columns {
			columns = append(columns, col.FieldName)
		}
		return LiveVariable{DataSet: columns, Category: def.Category}
	case category == "DeviceVariable":
		return DeviceVariable{Operation: def.Operation, Category: def.Category}
	default:
		return OtherVariable{Category: def.Category}
	}
}

func projectAction(kind Kind, def definition) Entry {
	switch kind {
	case KindNavigation:
		target := def.Operation
		if def.PageName != "" {
			target = def.Operation + " " + def.PageName
		}
		return NavigationAction{Target: target, Category: def.Category}
	case KindNotification:
		return NotificationAction{Operation: def.Operation, Category: def.Category}
	case KindTimer:
		return TimerAction{Delay: def.Delay, Category: def.Category}
	case KindLogin:
		return LoginAction{Category: def.Category}
	case KindLogout:
		return LogoutAction{Category: def.Category}
	default:
		panic("variables: unhandled action kind " + string(kind))
	}
}

// serviceVariable enriches a service-backed entry with its operation
// parameters and return fields. A failed parameter lookup omits parameters;
// an unresolved return type falls back to a single "value" field.
func (c *Classifier) serviceVariable(ctx context.Context, name string, def definition) ServiceVariable {
	out := ServiceVariable{Category: def.Category}

	if defs, ok := c.schemas.ServiceDefinitions(ctx, c.projectID, def.Service); ok {
		if op, found := defs[def.OperationID]; found {
			out.Parameters = make([]Parameter, 0, len(op.Info.Parameters))
			for _, p := range op.Info.Parameters {
				param := Parameter{Name: p.Name, Type: p.ParameterType}
				if param.Type == "" {
					param.Type = p.Type
				}
				for _, b := range def.DataBinding {
					if b.Target == p.Name {
						param.Value = b.Value
					}
				}
				out.Parameters = append(out.Parameters, param)
			}
		}
	} else {
		c.logger.Debug("service parameters unavailable",
			slog.String("variable", name), slog.String("service", def.Service))
	}

	if schema, ok := c.schemas.ServiceTypes(ctx, c.projectID, def.Service); ok {
		if typ, found := schema.Types[def.Type]; found {
			out.DataSet = make([]ReturnField, 0)
			if typ.Fields != nil {
				for f := typ.Fields.Oldest(); f != nil; f = f.Next() {
					out.DataSet = append(out.DataSet, ReturnField{Name: f.Key, Type: f.Value.Type})
				}
			}
		}
	}
	if out.DataSet == nil {
		out.DataSet = []ReturnField{{Name: "value", Synthetic: true}}
	}
	return out
}
