package decode

import (
	"strconv"
	"strings"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// Markers the scraper looks for inside added nodes. The market window
// renders one ".item" element per listing row with these descendants.
const (
	itemMarker     = "item"
	nameMarker     = "name"
	priceMarker    = "price"
	quantityMarker = "quantity"

	itemIDAttr = "data-item-id"
)

// Digits applies the permissive numeric-extraction rule: strip everything
// that is not an ASCII digit and parse what remains. Returns def when
// nothing parseable is left. "1 250 000 K" -> 1250000.
func Digits(s string, def int64) int64 {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return def
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// NodeObservation extracts one observation from a scraped item element.
// An element without an id, or whose price comes out non-positive, is
// skipped: scraped text is too noisy to trust a zero price.
func NodeObservation(el port.Node, server string, ts int64) (domain.Observation, error) {
	itemID := Digits(el.Attr(itemIDAttr), 0)
	if itemID <= 0 {
		return domain.Observation{}, domain.ErrNoItemID
	}

	obs := domain.Observation{
		ItemID:    itemID,
		ObjectUID: itemID,
		Name:      domain.UnknownName,
		Quantity:  1,
		Server:    server,
		Ts:        ts,
	}
	if names := el.Find(nameMarker); len(names) > 0 {
		if name := strings.TrimSpace(names[0].Text()); name != "" {
			obs.Name = name
		}
	}
	if prices := el.Find(priceMarker); len(prices) > 0 {
		obs.Price = Digits(prices[0].Text(), 0)
	}
	if obs.Price <= 0 {
		return domain.Observation{}, domain.ErrNonPositivePrice
	}
	if qtys := el.Find(quantityMarker); len(qtys) > 0 {
		if q := Digits(qtys[0].Text(), 1); q > 0 {
			obs.Quantity = q
		}
	}
	return obs, nil
}

// BatchObservations scans a mutation batch for item elements and extracts
// whatever observations it can. Rejected elements are counted, not
// propagated: one garbled row never hides its siblings.
func BatchObservations(batch port.MutationBatch, server string, ts int64) (obs []domain.Observation, skipped int) {
	for _, node := range batch {
		if node == nil {
			continue
		}
		for _, el := range node.Find(itemMarker) {
			o, err := NodeObservation(el, server, ts)
			if err != nil {
				skipped++
				continue
			}
			obs = append(obs, o)
		}
	}
	return obs, skipped
}
