package widgets

// Class is how the extractor treats a tag.
type Class int

const (
	// ClassWidget is an ordinary addressable widget.
	ClassWidget Class = iota
	// ClassStructural is layout or page chrome; never surfaced, children still walked.
	ClassStructural
	// ClassChildOnly only has meaning inside a data-bearing parent.
	ClassChildOnly
	// ClassPartialHost may embed a partial through its content attribute.
	ClassPartialHost
	// ClassContainer is a plain container, surfaced only while hosting a partial.
	ClassContainer
	// ClassDataBearing is a list, table or form whose descendants are grouped under it.
	ClassDataBearing
)

func (c Class) String() string {
	switch c {
	case ClassWidget:
		return "widget"
	case ClassStructural:
		return "structural"
	case ClassChildOnly:
		return "child-only"
	case ClassPartialHost:
		return "partial-host"
	case ClassContainer:
		return "container"
	case ClassDataBearing:
		return "data-bearing"
	default:
		return "unknown"
	}
}

// classTable assigns each special tag exactly one class. Unlisted tags are widgets.
var classTable = map[string]Class{
	"html":                ClassStructural,
	"head":                ClassStructural,
	"body":                ClassStructural,
	"wm-page":             ClassStructural,
	"wm-partial":          ClassStructural,
	"wm-prefab-container": ClassStructural,
	"wm-header":           ClassStructural,
	"wm-top-nav":          ClassStructural,
	"wm-content":          ClassStructural,
	"wm-left-panel":       ClassStructural,
	"wm-page-content":     ClassStructural,
	"wm-composite":        ClassStructural,
	"wm-footer":           ClassStructural,
	"wm-gridrow":          ClassStructural,
	"wm-gridcolumn":       ClassStructural,
	"wm-layoutgrid":       ClassStructural,
	"wm-listtemplate":     ClassStructural,
	"wm-dialogactions":    ClassStructural,
	"wm-card":             ClassStructural,
	"wm-livetable":        ClassStructural,

	"wm-form-field":   ClassChildOnly,
	"wm-table-column": ClassChildOnly,
	"wm-param":        ClassChildOnly,

	"wm-panel":         ClassPartialHost,
	"wm-accordionpane": ClassPartialHost,
	"wm-tabpane":       ClassPartialHost,
	"wm-card-content":  ClassPartialHost,
	"wm-wizardstep":    ClassPartialHost,

	"wm-container": ClassContainer,

	"wm-list":     ClassDataBearing,
	"wm-table":    ClassDataBearing,
	"wm-form":     ClassDataBearing,
	"wm-liveform": ClassDataBearing,
}

// Classify returns the class of a lower-cased tag name.
func Classify(tag string) Class {
	if c, ok := classTable[tag]; ok {
		return c
	}
	return ClassWidget
}

// Grouping keys for the children of data-bearing widgets.
const (
	GroupForm      = "formWidgets"
	GroupListItems = "list-item-widgets"
	GroupColumns   = "table-columns"
	GroupChildren  = "children"
)

// groupRule says how a data-bearing tag collects its descendants.
type groupRule struct {
	key    string
	only   string // when set, only descendants with this tag are collected
	claims bool   // collected names are withheld from the top-level mapping
}

var groupRules = map[string]groupRule{
	"wm-form":     {key: GroupForm},
	"wm-liveform": {key: GroupForm},
	"wm-list":     {key: GroupListItems, claims: true},
	"wm-table":    {key: GroupColumns, only: "wm-table-column"},
}

// ruleFor returns the grouping rule of a data-bearing tag.
func ruleFor(tag string) groupRule {
	if r, ok := groupRules[tag]; ok {
		return r
	}
	return groupRule{key: GroupChildren, claims: true}
}
