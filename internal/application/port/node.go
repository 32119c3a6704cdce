package port

// Node is an opaque structural element delivered by a mutation feed. Any
// tree-shaped surface works: a serialized DOM fragment, an accessibility
// tree, a polled snapshot diff. The extractor only ever asks for an
// attribute, the flattened text, or descendants carrying a class marker.
type Node interface {
	Attr(name string) string
	Text() string
	Find(class string) []Node
}

// MutationBatch is one batch of newly added nodes from a structural-change
// notification.
type MutationBatch []Node
