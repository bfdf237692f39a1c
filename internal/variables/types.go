package variables

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the projected shape of a variable or action.
type Kind string

const (
	KindData    Kind = "Variable"
	KindService Kind = "ServiceVariable"
	KindLive    Kind = "LiveVariable"
	KindDevice  Kind = "DeviceVariable"
	KindOther   Kind = "Other"

	KindNavigation   Kind = "NavigationVariable"
	KindNotification Kind = "NotificationVariable"
	KindLogout       Kind = "LogoutVariable"
	KindLogin        Kind = "LoginVariable"
	KindTimer        Kind = "TimerVariable"
)

// actionKinds is the closed set of categories classified as actions.
var actionKinds = map[string]Kind{
	"NavigationVariable":   KindNavigation,
	"NotificationVariable": KindNotification,
	"LogoutVariable":       KindLogout,
	"LoginVariable":        KindLogin,
	"TimerVariable":        KindTimer,
}

// IsAction reports whether entries of this kind belong in Actions.
func (k Kind) IsAction() bool {
	_, ok := actionKinds[string(k)]
	return ok
}

// IsActionCategory reports whether an upstream category tag such as
// "wm.TimerVariable" denotes an action.
func IsActionCategory(category string) bool {
	_, ok := actionKinds[baseCategory(category)]
	return ok
}

func baseCategory(category string) string {
	return strings.ReplaceAll(category, "wm.", "")
}

// Entry is one projected variable or action. The set of implementations is closed.
type Entry interface {
	Kind() Kind
	// CategoryTag is the upstream category, unmodified.
	CategoryTag() string
	entry()
}

// Set maps entry name to entry, in declaration order.
type Set = orderedmap.OrderedMap[string, Entry]

// NewSet returns an empty Set.
func NewSet() *Set {
	return orderedmap.New[string, Entry]()
}

// DataVariable is a plain client-side variable.
type DataVariable struct {
	Type     string `json:"type"`
	DataSet  any    `json:"dataSet"`
	Category string `json:"category"`
}

// Parameter is one service operation input.
// Value holds the literal or expression bound to it, when any.
type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// ReturnField is one field of a service return type. A synthetic field
// stands in for an unresolved type and encodes as a bare name.
type ReturnField struct {
	Name      string
	Type      string
	Synthetic bool
}

// MarshalJSON encodes {"name","type"}, or just the name when synthetic.
func (f ReturnField) MarshalJSON() ([]byte, error) {
	if f.Synthetic {
		return json.Marshal(f.Name)
	}
	return json.Marshal(struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}{f.Name, f.Type})
}

// ServiceVariable is backed by a service operation.
type ServiceVariable struct {
	Parameters []Parameter   `json:"parameters,omitempty"`
	DataSet    []ReturnField `json:"dataSet"`
	Category   string        `json:"category"`
}

// LiveVariable is backed by a queryable view; only column names are kept.
type LiveVariable struct {
	DataSet  []string `json:"dataSet"`
	Category string   `json:"category"`
}

// DeviceVariable invokes a device capability.
type DeviceVariable struct {
	Operation string `json:"operation"`
	Category  string `json:"category"`
}

// OtherVariable is any variable with no specific projection.
type OtherVariable struct {
	Category string `json:"category"`
}

// NavigationAction moves to another page or view.
type NavigationAction struct {
	Target   string `json:"target"`
	Category string `json:"category"`
}

// NotificationAction shows a message; Operation is the notification style.
type NotificationAction struct {
	Operation string `json:"operation"`
	Category  string `json:"category"`
}

// TimerAction fires after Delay milliseconds. Zero means unset.
type TimerAction struct {
	Delay    int    `json:"delay,omitempty"`
	Category string `json:"category"`
}

// LoginAction signs the user in.
type LoginAction struct {
	Category string `json:"category"`
}

// LogoutAction signs the user out.
type LogoutAction struct {
	Category string `json:"category"`
}

func (DataVariable) Kind() Kind       { return KindData }
func (ServiceVariable) Kind() Kind    { return KindService }
func (LiveVariable) Kind() Kind       { return KindLive }
func (DeviceVariable) Kind() Kind     { return KindDevice }
func (OtherVariable) Kind() Kind      { return KindOther }
func (NavigationAction) Kind() Kind   { return KindNavigation }
func (NotificationAction) Kind() Kind { return KindNotification }
func (TimerAction) Kind() Kind        { return KindTimer }
func (LoginAction) Kind() Kind        { return KindLogin }
func (LogoutAction) Kind() Kind       { return KindLogout }

func (v DataVariable) CategoryTag() string       { return v.Category }
func (v ServiceVariable) CategoryTag() string    { return v.Category }
func (v LiveVariable) CategoryTag() string       { return v.Category }
func (v DeviceVariable) CategoryTag() string     { return v.Category }
func (v OtherVariable) CategoryTag() string      { return v.Category }
func (a NavigationAction) CategoryTag() string   { return a.Category }
func (a NotificationAction) CategoryTag() string { return a.Category }
func (a TimerAction) CategoryTag() string        { return a.Category }
func (a LoginAction) CategoryTag() string        { return a.Category }
func (a LogoutAction) CategoryTag() string       { return a.Category }

func (DataVariable) entry()       {}
func (ServiceVariable) entry()    {}
func (LiveVariable) entry()       {}
func (DeviceVariable) entry()     {}
func (OtherVariable) entry()      {}
func (NavigationAction) entry()   {}
func (NotificationAction) entry() {}
func (TimerAction) entry()        {}
func (LoginAction) entry()        {}
func (LogoutAction) entry()       {}
