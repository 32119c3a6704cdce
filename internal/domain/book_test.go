package domain

import "testing"

func TestBookApplyAndGet(t *testing.T) {
	b := NewBook()

	if _, ok := b.Get(100); ok {
		t.Fatal("empty book should miss")
	}

	b.Apply(obs(100, 500))
	rec, ok := b.Get(100)
	if !ok {
		t.Fatal("record missing after apply")
	}
	if rec.Price != 500 || rec.AvgPrice != 500 {
		t.Errorf("unexpected record: %+v", rec)
	}

	b.Apply(obs(100, 300))
	rec, _ = b.Get(100)
	if rec.AvgPrice != 400 || rec.MinPrice != 300 || rec.MaxPrice != 500 {
		t.Errorf("merge through book wrong: %+v", rec)
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 record, got %d", b.Len())
	}
}

func TestBookAllAndItemsAreCopies(t *testing.T) {
	b := NewBook()
	b.Apply(obs(1, 10))
	b.Apply(obs(2, 20))

	all := b.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}

	items := b.Items()
	items[1] = MarketRecord{ItemID: 1, Price: 999999}
	if rec, _ := b.Get(1); rec.Price == 999999 {
		t.Error("Items() must return a copy, not the live map")
	}
}

func TestBookReplaceFixesKeyMismatch(t *testing.T) {
	b := NewBook()
	b.Replace(map[int64]MarketRecord{
		7: {Name: "orphan", Price: 5, Ts: 1}, // itemId missing in payload
	})

	rec, ok := b.Get(7)
	if !ok {
		t.Fatal("replaced record missing")
	}
	if rec.ItemID != 7 {
		t.Errorf("itemId not backfilled from key: %d", rec.ItemID)
	}
}

func TestBookPruneBoundary(t *testing.T) {
	b := NewBook()
	b.Replace(map[int64]MarketRecord{
		1: {ItemID: 1, Ts: 999},  // older than cutoff
		2: {ItemID: 2, Ts: 1000}, // exactly at cutoff: retained
		3: {ItemID: 3, Ts: 1001},
	})

	if n := b.Prune(1000); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := b.Get(1); ok {
		t.Error("stale record survived prune")
	}
	if _, ok := b.Get(2); !ok {
		t.Error("record exactly at the window boundary must be retained")
	}
	if _, ok := b.Get(3); !ok {
		t.Error("fresh record evicted")
	}
}
