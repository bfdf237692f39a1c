package variables

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mvp-joe/wm-appcontext/internal/remote"
)

// Test Plan for the variable classifier:
// - Action categories land in Actions, everything else in Variables, disjoint and covering the input
// - Output preserves input order and the original category tag
// - Navigation target synthesis with and without a page name
// - Notification keeps its operation; Timer keeps delay only when set
// - Service-backed variables get parameters (with bound values) and return fields
// - Unresolved return type falls back to ["value"]; failed lookups never abort the rest
// - Live variables keep column names; device variables keep their operation
// - Non-object or partially undecodable definitions are still classified
// - ParseDefinitions keeps declaration order and tolerates garbage

func defsFrom(t *testing.T, raw string) *remote.Definitions {
	t.Helper()
	defs := orderedmap.New[string, any]()
	require.NoError(t, json.Unmarshal([]byte(raw), defs))
	return defs
}

func keys(s *Set) []string {
	var out []string
	for pair := s.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func newTestClassifier(mock *remote.MockFetcher) *Classifier {
	return NewClassifier(remote.NewClient(mock, nil), "p1", nil)
}

func TestClassify_PartitionsActionsAndVariables(t *testing.T) {
	t.Parallel()

	defs := defsFrom(t, `{
		"nav":      {"category": "wm.NavigationVariable", "operation": "gotoPage", "pageName": "Main"},
		"user":     {"category": "wm.Variable", "type": "string"},
		"toast":    {"category": "wm.NotificationVariable", "operation": "toast"},
		"live":     {"category": "wm.LiveVariable"},
		"logout":   {"category": "wm.LogoutVariable"},
		"login":    {"category": "wm.LoginVariable"},
		"camera":   {"category": "wm.DeviceVariable", "operation": "captureImage"},
		"tick":     {"category": "wm.TimerVariable"},
		"socket":   {"category": "wm.WebSocketVariable"},
		"nocat":    {},
		"bare":     "not an object"
	}`)

	vars, actions := newTestClassifier(remote.NewMockFetcher()).Classify(context.Background(), defs)

	assert.Equal(t, []string{"nav", "toast", "logout", "login", "tick"}, keys(actions))
	assert.Equal(t, []string{"user", "live", "camera", "socket", "nocat", "bare"}, keys(vars))
	assert.Equal(t, defs.Len(), vars.Len()+actions.Len())

	for pair := actions.Oldest(); pair != nil; pair = pair.Next() {
		assert.True(t, IsActionCategory(pair.Value.CategoryTag()), pair.Key)
		_, dup := vars.Get(pair.Key)
		assert.False(t, dup, pair.Key)
	}
	for pair := vars.Oldest(); pair != nil; pair = pair.Next() {
		assert.False(t, IsActionCategory(pair.Value.CategoryTag()), pair.Key)
	}

	socket, _ := vars.Get("socket")
	assert.Equal(t, OtherVariable{Category: "wm.WebSocketVariable"}, socket)
}

func TestClassify_NavigationTarget(t *testing.T) {
	t.Parallel()

	defs := defsFrom(t, `{
		"toOrders": {"category": "wm.NavigationVariable", "operation": "goto", "pageName": "Orders"},
		"back":     {"category": "wm.NavigationVariable", "operation": "goback"}
	}`)

	_, actions := newTestClassifier(remote.NewMockFetcher()).Classify(context.Background(), defs)

	toOrders, _ := actions.Get("toOrders")
	assert.Equal(t, NavigationAction{Target: "goto Orders", Category: "wm.NavigationVariable"}, toOrders)

	back, _ := actions.Get("back")
	assert.Equal(t, NavigationAction{Target: "goback", Category: "wm.NavigationVariable"}, back)
}

func TestClassify_NotificationAndTimer(t *testing.T) {
	t.Parallel()

	defs := defsFrom(t, `{
		"alert":   {"category": "wm.NotificationVariable", "operation": "alert", "dataBinding": []},
		"slow":    {"category": "wm.TimerVariable", "delay": 500},
		"strDly":  {"category": "wm.TimerVariable", "delay": "250"},
		"noDelay": {"category": "wm.TimerVariable"}
	}`)

	_, actions := newTestClassifier(remote.NewMockFetcher()).Classify(context.Background(), defs)

	alert, _ := actions.Get("alert")
	assert.Equal(t, NotificationAction{Operation: "alert", Category: "wm.NotificationVariable"}, alert)

	slow, _ := actions.Get("slow")
	assert.Equal(t, 500, slow.(TimerAction).Delay)

	strDly, _ := actions.Get("strDly")
	assert.Equal(t, 250, strDly.(TimerAction).Delay)

	noDelay, _ := actions.Get("noDelay")
	data, err := json.Marshal(noDelay)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"wm.TimerVariable"}`, string(data))
}

func TestClassify_DataLiveDevice(t *testing.T) {
	t.Parallel()

	defs := defsFrom(t, `{
		"cart":   {"category": "wm.Variable", "type": "entry", "dataSet": [{"id": 1}], "isList": true},
		"emps":   {"category": "wm.LiveVariable", "liveSource": "hrdb",
		           "propertiesMap": {"columns": [{"fieldName": "id"}, {"fieldName": "name"}]}},
		"geo":    {"category": "wm.DeviceVariable", "operation": "getCurrentGeoPosition", "service": "DeviceService"}
	}`)

	vars, _ := newTestClassifier(remote.NewMockFetcher()).Classify(context.Background(), defs)

	cart, _ := vars.Get("cart")
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"entry","dataSet":[{"id":1}],"category":"wm.Variable"}`, string(data))

	emps, _ := vars.Get("emps")
	assert.Equal(t, LiveVariable{DataSet: []string{"id", "name"}, Category: "wm.LiveVariable"}, emps)

	geo, _ := vars.Get("geo")
	assert.Equal(t, DeviceVariable{Operation: "getCurrentGeoPosition", Category: "wm.DeviceVariable"}, geo)
}

func TestClassify_ServiceVariable(t *testing.T) {
	t.Parallel()

	mock := remote.NewMockFetcher().
		Set(remote.ServiceDefinitionsPath("p1", "hrdb"), `{
			"getEmployees": {"wmServiceOperationInfo": {"parameters": [
				{"name": "dept", "parameterType": "query"},
				{"name": "limit", "type": "integer"}
			]}}
		}`).
		Set(remote.ServiceTypesPath("p1", "hrdb"), `{"types": {"Employee": {"fields": {
			"id": {"type": "integer"}, "name": {"type": "string"}
		}}}}`)

	defs := defsFrom(t, `{
		"empsSV": {
			"category": "wm.ServiceVariable",
			"service": "hrdb",
			"operationId": "getEmployees",
			"type": "Employee",
			"dataBinding": [{"target": "dept", "value": "bind:Widgets.dept.datavalue"}]
		}
	}`)

	vars, actions := newTestClassifier(mock).Classify(context.Background(), defs)
	assert.Equal(t, 0, actions.Len())

	entry, ok := vars.Get("empsSV")
	require.True(t, ok)
	sv := entry.(ServiceVariable)

	assert.Equal(t, []Parameter{
		{Name: "dept", Type: "query", Value: "bind:Widgets.dept.datavalue"},
		{Name: "limit", Type: "integer"},
	}, sv.Parameters)

	data, err := json.Marshal(sv)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"parameters": [
			{"name": "dept", "type": "query", "value": "bind:Widgets.dept.datavalue"},
			{"name": "limit", "type": "integer"}
		],
		"dataSet": [{"name": "id", "type": "integer"}, {"name": "name", "type": "string"}],
		"category": "wm.ServiceVariable"
	}`, string(data))
}

func TestClassify_ServiceVariableUnresolvedType(t *testing.T) {
	t.Parallel()

	mock := remote.NewMockFetcher().
		Set(remote.ServiceTypesPath("p1", "weather"), `{"types": {"Other": {"fields": {}}}}`)

	defs := defsFrom(t, `{
		"forecast": {"category": "wm.ServiceVariable", "service": "weather", "operationId": "get", "type": "Forecast"},
		"after":    {"category": "wm.Variable", "type": "string"}
	}`)

	vars, _ := newTestClassifier(mock).Classify(context.Background(), defs)

	forecast, _ := vars.Get("forecast")
	data, err := json.Marshal(forecast)
	require.NoError(t, err)
	// definitions lookup failed: parameters omitted; type missing: synthetic value
	assert.JSONEq(t, `{"dataSet":["value"],"category":"wm.ServiceVariable"}`, string(data))

	// the failed lookups did not stop later entries
	_, ok := vars.Get("after")
	assert.True(t, ok)
}

func TestClassify_ServiceVariableAllLookupsFail(t *testing.T) {
	t.Parallel()

	mock := remote.NewMockFetcher()
	defs := defsFrom(t, `{"sv": {"category": "wm.ServiceVariable", "service": "s", "operationId": "op", "type": "T"}}`)

	vars, _ := newTestClassifier(mock).Classify(context.Background(), defs)

	sv, _ := vars.Get("sv")
	assert.Equal(t, []ReturnField{{Name: "value", Synthetic: true}}, sv.(ServiceVariable).DataSet)
	assert.Nil(t, sv.(ServiceVariable).Parameters)
	assert.Equal(t, 2, len(mock.Requests()))
}

func TestClassify_PartiallyUndecodableDefinition(t *testing.T) {
	t.Parallel()

	defs := defsFrom(t, `{"t": {"category": "wm.TimerVariable", "delay": "soon", "operation": {"nested": true}}}`)

	_, actions := newTestClassifier(remote.NewMockFetcher()).Classify(context.Background(), defs)

	tick, ok := actions.Get("t")
	require.True(t, ok)
	assert.Equal(t, TimerAction{Category: "wm.TimerVariable"}, tick)
}

func TestParseDefinitions(t *testing.T) {
	t.Parallel()

	raw := `{"zeta": {"category": "wm.Variable"}, "alpha": {"category": "wm.TimerVariable"}}`
	defs, ok := ParseDefinitions(url.QueryEscape(raw))
	require.True(t, ok)

	var names []string
	for pair := defs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha"}, names)

	for _, bad := range []string{"", "%7Bnot json", "[1,2]"} {
		defs, ok := ParseDefinitions(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, 0, defs.Len(), bad)
	}
}

func TestKind_IsAction(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindNavigation, KindNotification, KindLogout, KindLogin, KindTimer} {
		assert.True(t, k.IsAction(), k)
	}
	for _, k := range []Kind{KindData, KindService, KindLive, KindDevice, KindOther} {
		assert.False(t, k.IsAction(), k)
	}
}
