package decode

import (
	"errors"
	"testing"

	"hdvtrack/internal/domain"
)

func TestListingAddObservations(t *testing.T) {
	raw := []byte(`{"itemInfo":{"objectGID":289,"objectUID":5523,"name":"Blé","prices":[120,1100,10500],"quantity":10}}`)

	obs, err := ListingAddObservations(raw, "Oshimo", 42)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	o := obs[0]
	if o.ItemID != 289 || o.ObjectUID != 5523 || o.Name != "Blé" || o.Price != 120 || o.Quantity != 10 {
		t.Errorf("unexpected observation: %+v", o)
	}
	if o.Server != "Oshimo" || o.Ts != 42 {
		t.Errorf("context not stamped: %+v", o)
	}
}

func TestListingAddDefaults(t *testing.T) {
	// only a UID: GID falls back to it, everything else defaulted
	raw := []byte(`{"itemInfo":{"objectUID":77}}`)

	obs, err := ListingAddObservations(raw, "Oshimo", 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	o := obs[0]
	if o.ItemID != 77 || o.ObjectUID != 77 {
		t.Errorf("uid fallback broken: %+v", o)
	}
	if o.Name != domain.UnknownName || o.Price != 0 || o.Quantity != 1 {
		t.Errorf("defaults not applied: %+v", o)
	}
}

func TestListingAddRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"no itemInfo", `{}`, domain.ErrEmptyPayload},
		{"no id", `{"itemInfo":{"name":"x","prices":[5]}}`, domain.ErrNoItemID},
	}
	for _, tc := range cases {
		if _, err := ListingAddObservations([]byte(tc.raw), "s", 1); !errors.Is(err, tc.want) {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}

	if _, err := ListingAddObservations([]byte(`{"itemInfo":`), "s", 1); err == nil {
		t.Error("truncated JSON must be rejected")
	}
}

func TestTypeDescriptionObservations(t *testing.T) {
	raw := []byte(`{"itemTypeDescriptions":[
		{"typeId":101,"name":"Orge","prices":[50,480,4600],"quantities":[1,10,100]},
		{"typeId":0,"prices":[9]},
		{"typeId":102,"name":"Avoine"},
		{"typeId":103,"prices":[75]}
	]}`)

	obs, err := TypeDescriptionObservations(raw, "Oshimo", 7)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	// entry with id 0 and entry without prices are skipped, not fatal
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].ItemID != 101 || obs[0].Price != 50 || obs[0].Quantity != 1 {
		t.Errorf("first entry wrong: %+v", obs[0])
	}
	if obs[1].ItemID != 103 || obs[1].Name != domain.UnknownName || obs[1].Quantity != 1 {
		t.Errorf("defaulted entry wrong: %+v", obs[1])
	}
}

func TestTypeDescriptionsEmpty(t *testing.T) {
	if _, err := TypeDescriptionObservations([]byte(`{}`), "s", 1); !errors.Is(err, domain.ErrEmptyPayload) {
		t.Errorf("want ErrEmptyPayload, got %v", err)
	}
}
