package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Scope is the kind of document a markup tree describes.
type Scope string

const (
	ScopePage    Scope = "Page"
	ScopePartial Scope = "Partial"
	ScopePrefab  Scope = "Prefab"
)

// wrapperScopes maps the required outermost wrapper element to its scope.
var wrapperScopes = map[string]Scope{
	"wm-page":             ScopePage,
	"wm-partial":          ScopePartial,
	"wm-prefab-container": ScopePrefab,
}

// voidElements never have children, even without a self-closing slash.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Element is one tag in the tree. Tag and attribute keys are lower-cased.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of key and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Name returns the name attribute, or "" when absent.
func (e *Element) Name() string {
	v, _ := e.Attr("name")
	return v
}

// Descendants returns every element below e in document order.
func (e *Element) Descendants() []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// Document is a parsed page, partial or prefab.
type Document struct {
	Root  *Element // synthetic root; its children are the top-level tags
	Scope Scope
}

// Parse decodes transport-encoded markup and builds its element tree.
func Parse(encoded string) *Document {
	return ParseHTML(DecodeMarkup(encoded))
}

// ParseHTML builds the element tree of already-decoded markup.
func ParseHTML(markup string) *Document {
	root := parseTree(strings.NewReader(markup))
	return &Document{Root: root, Scope: detectScope(root)}
}

// parseTree tokenizes r into a tree. Self-closing tags close immediately,
// unmatched end tags are ignored, and tags left open at EOF are closed
// implicitly.
func parseTree(r io.Reader) *Element {
	root := &Element{}
	stack := []*Element{root}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure; keep what was built
			return root

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &Element{Tag: strings.ToLower(tok.Data), Attrs: attrsOf(tok.Attr)}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, el)
			if tt == html.StartTagToken && !voidElements[el.Tag] {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			tag := strings.ToLower(z.Token().Data)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func attrsOf(in []html.Attribute) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		key := strings.ToLower(a.Key)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Attr{Key: key, Val: a.Val})
	}
	return out
}

// detectScope finds the first wrapper element in document order.
func detectScope(root *Element) Scope {
	for _, el := range root.Descendants() {
		if scope, ok := wrapperScopes[el.Tag]; ok {
			return scope
		}
	}
	return ScopePage
}
