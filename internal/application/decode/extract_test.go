package decode

import (
	"errors"
	"testing"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// fakeNode is a minimal port.Node for extractor tests.
type fakeNode struct {
	class    string
	attrs    map[string]string
	text     string
	children []*fakeNode
}

func (n *fakeNode) Attr(name string) string { return n.attrs[name] }

func (n *fakeNode) Text() string {
	out := n.text
	for _, c := range n.children {
		out += c.Text()
	}
	return out
}

func (n *fakeNode) Find(class string) []port.Node {
	var out []port.Node
	if n.class == class {
		out = append(out, n)
	}
	for _, c := range n.children {
		out = append(out, c.Find(class)...)
	}
	return out
}

func itemNode(id, name, price, qty string) *fakeNode {
	return &fakeNode{
		class: "item",
		attrs: map[string]string{"data-item-id": id},
		children: []*fakeNode{
			{class: "name", text: name},
			{class: "price", text: price},
			{class: "quantity", text: qty},
		},
	}
}

func TestDigits(t *testing.T) {
	cases := []struct {
		in   string
		def  int64
		want int64
	}{
		{"1 250 000 K", 0, 1250000},
		{"12.500", 0, 12500},
		{"x89", 0, 89},
		{"", 7, 7},
		{"gratuit", 7, 7},
		{"0", 3, 0},
	}
	for _, tc := range cases {
		if got := Digits(tc.in, tc.def); got != tc.want {
			t.Errorf("Digits(%q,%d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestNodeObservation(t *testing.T) {
	o, err := NodeObservation(itemNode("289", "Blé", "1 100", "x10"), "Oshimo", 5)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if o.ItemID != 289 || o.Name != "Blé" || o.Price != 1100 || o.Quantity != 10 {
		t.Errorf("unexpected observation: %+v", o)
	}
	if o.ObjectUID != 289 {
		t.Errorf("uid should default to item id: %+v", o)
	}
}

func TestNodeObservationRejections(t *testing.T) {
	if _, err := NodeObservation(itemNode("", "x", "100", "1"), "s", 1); !errors.Is(err, domain.ErrNoItemID) {
		t.Errorf("missing id: want ErrNoItemID, got %v", err)
	}
	if _, err := NodeObservation(itemNode("5", "x", "gratuit", "1"), "s", 1); !errors.Is(err, domain.ErrNonPositivePrice) {
		t.Errorf("unparseable price: want ErrNonPositivePrice, got %v", err)
	}
	if _, err := NodeObservation(itemNode("5", "x", "0", "1"), "s", 1); !errors.Is(err, domain.ErrNonPositivePrice) {
		t.Errorf("zero price: want ErrNonPositivePrice, got %v", err)
	}
}

func TestBatchObservations(t *testing.T) {
	batch := port.MutationBatch{
		&fakeNode{children: []*fakeNode{
			itemNode("1", "A", "100", "1"),
			itemNode("0", "bad", "100", "1"),
		}},
		nil,
		&fakeNode{children: []*fakeNode{
			itemNode("2", "B", "200", "10"),
		}},
	}

	obs, skipped := BatchObservations(batch, "Oshimo", 9)
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", skipped)
	}
	if obs[0].ItemID != 1 || obs[1].ItemID != 2 {
		t.Errorf("wrong items extracted: %+v", obs)
	}
}
