package remote

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ProjectDetails is the project descriptor.
type ProjectDetails struct {
	DisplayName  string `json:"displayName"`
	PlatformType string `json:"platformType"`
}

// PageDocument is a page (or partial) as stored by the designer.
// Both fields are transport-encoded strings.
type PageDocument struct {
	Markup    string `json:"markup"`
	Variables string `json:"variables"`
}

// Contract is the exposed property/method/event surface of a prefab.
// The shapes are opaque and passed through untouched.
type Contract struct {
	Properties json.RawMessage `json:"properties"`
	Methods    json.RawMessage `json:"methods"`
	Events     json.RawMessage `json:"events"`
}

// PrefabUsage is one prefab instance declared on a page.
type PrefabUsage struct {
	Config Contract `json:"config"`
}

// PrefabUsages maps prefab name to its usage, in declaration order.
type PrefabUsages = orderedmap.OrderedMap[string, PrefabUsage]

// Definitions maps variable name to its raw definition, in declaration order.
type Definitions = orderedmap.OrderedMap[string, any]

// OperationParameter is one declared input of a service operation.
type OperationParameter struct {
	Name          string `json:"name"`
	ParameterType string `json:"parameterType"`
	Type          string `json:"type"`
}

// ServiceOperation is the schema of a single service operation.
type ServiceOperation struct {
	Info struct {
		Parameters []OperationParameter `json:"parameters"`
	} `json:"wmServiceOperationInfo"`
}

// ServiceDefinitions maps operation id to its schema.
type ServiceDefinitions map[string]ServiceOperation

// TypeField describes one field of a service return type.
type TypeField struct {
	Type string `json:"type"`
}

// TypeDefinition lists the fields of a return type, in declaration order.
type TypeDefinition struct {
	Fields *orderedmap.OrderedMap[string, TypeField] `json:"fields"`
}

// TypeSchema is the set of types a service exposes.
type TypeSchema struct {
	Types map[string]TypeDefinition `json:"types"`
}
