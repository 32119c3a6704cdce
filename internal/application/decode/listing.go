// Package decode turns raw bridge payloads and scraped nodes into
// observations. All default-filling lives here so the transports stay
// dumb: a feed hands bytes or nodes in and gets observations or a typed
// rejection back.
package decode

import (
	"encoding/json"
	"fmt"

	"hdvtrack/internal/domain"
)

// ItemInfo is the item block inside an "item added to listing" event.
// Either objectGID or objectUID identifies the item; whichever is present
// wins, GID first.
type ItemInfo struct {
	ObjectGID int64   `json:"objectGID"`
	ObjectUID int64   `json:"objectUID"`
	Name      string  `json:"name"`
	Prices    []int64 `json:"prices"`
	Quantity  int64   `json:"quantity"`
}

// ListingAdd mirrors the ExchangeBidHouseItemAddOk payload.
type ListingAdd struct {
	ItemInfo *ItemInfo `json:"itemInfo"`
}

// TypeDescription is one entry of an exchange type description event.
type TypeDescription struct {
	TypeID     int64   `json:"typeId"`
	Name       string  `json:"name"`
	Prices     []int64 `json:"prices"`
	Quantities []int64 `json:"quantities"`
}

// TypeDescriptions mirrors the ExchangeTypesItemsExchangerDescription
// payload.
type TypeDescriptions struct {
	ItemTypeDescriptions []TypeDescription `json:"itemTypeDescriptions"`
}

// ListingAddObservations decodes a listing-add payload into at most one
// observation. Missing fields get the documented defaults: price 0,
// quantity 1, name "Unknown".
func ListingAddObservations(raw []byte, server string, ts int64) ([]domain.Observation, error) {
	var msg ListingAdd
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode listing add: %w", err)
	}
	if msg.ItemInfo == nil {
		return nil, domain.ErrEmptyPayload
	}

	info := msg.ItemInfo
	itemID := info.ObjectGID
	if itemID == 0 {
		itemID = info.ObjectUID
	}
	if itemID <= 0 {
		return nil, domain.ErrNoItemID
	}

	obs := domain.Observation{
		ItemID:    itemID,
		ObjectUID: info.ObjectUID,
		Name:      info.Name,
		Quantity:  info.Quantity,
		Server:    server,
		Ts:        ts,
	}
	if obs.ObjectUID == 0 {
		obs.ObjectUID = itemID
	}
	if obs.Name == "" {
		obs.Name = domain.UnknownName
	}
	if obs.Quantity <= 0 {
		obs.Quantity = 1
	}
	if len(info.Prices) > 0 {
		obs.Price = info.Prices[0]
	}
	return []domain.Observation{obs}, nil
}

// TypeDescriptionObservations decodes a type description payload into one
// observation per well-formed entry. Entries without a type id or without
// any price are skipped; a payload with no usable entry is not an error,
// it just yields nothing.
func TypeDescriptionObservations(raw []byte, server string, ts int64) ([]domain.Observation, error) {
	var msg TypeDescriptions
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode type descriptions: %w", err)
	}
	if len(msg.ItemTypeDescriptions) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	var out []domain.Observation
	for _, td := range msg.ItemTypeDescriptions {
		if td.TypeID <= 0 || len(td.Prices) == 0 {
			continue
		}
		obs := domain.Observation{
			ItemID:    td.TypeID,
			ObjectUID: td.TypeID,
			Name:      td.Name,
			Price:     td.Prices[0],
			Quantity:  1,
			Server:    server,
			Ts:        ts,
		}
		if obs.Name == "" {
			obs.Name = domain.UnknownName
		}
		if len(td.Quantities) > 0 && td.Quantities[0] > 0 {
			obs.Quantity = td.Quantities[0]
		}
		out = append(out, obs)
	}
	return out, nil
}
