package bridge

import (
	"encoding/json"
	"strings"

	"hdvtrack/internal/application/port"
)

// Fragment is a serialized DOM subtree as the wrapper ships it in a
// DomMutation envelope. It satisfies port.Node so the extractor never
// sees the wire shape.
type Fragment struct {
	Tag      string            `json:"tag"`
	Class    string            `json:"class"`
	Attrs    map[string]string `json:"attrs"`
	TextBody string            `json:"text"`
	Children []*Fragment       `json:"children"`
}

func (f *Fragment) Attr(name string) string {
	if f.Attrs == nil {
		return ""
	}
	return f.Attrs[name]
}

// Text flattens the fragment's own text and all descendant text, in
// document order.
func (f *Fragment) Text() string {
	var sb strings.Builder
	f.writeText(&sb)
	return sb.String()
}

func (f *Fragment) writeText(sb *strings.Builder) {
	sb.WriteString(f.TextBody)
	for _, c := range f.Children {
		if c != nil {
			c.writeText(sb)
		}
	}
}

// Find returns every descendant (the fragment itself included) carrying
// the given class token.
func (f *Fragment) Find(class string) []port.Node {
	var out []port.Node
	f.find(class, &out)
	return out
}

func (f *Fragment) find(class string, out *[]port.Node) {
	if f.hasClass(class) {
		*out = append(*out, f)
	}
	for _, c := range f.Children {
		if c != nil {
			c.find(class, out)
		}
	}
}

func (f *Fragment) hasClass(class string) bool {
	for _, tok := range strings.Fields(f.Class) {
		if tok == class {
			return true
		}
	}
	return false
}

// mutationPayload is the DomMutation envelope body: the nodes added in one
// observer callback.
type mutationPayload struct {
	Added []*Fragment `json:"added"`
}

// decodeMutation turns a DomMutation payload into a batch of opaque nodes.
func decodeMutation(raw []byte) (port.MutationBatch, error) {
	var p mutationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	batch := make(port.MutationBatch, 0, len(p.Added))
	for _, f := range p.Added {
		if f != nil {
			batch = append(batch, f)
		}
	}
	return batch, nil
}

var _ port.Node = (*Fragment)(nil)
