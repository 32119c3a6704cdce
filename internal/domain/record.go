package domain

// Observation is one normalized price sighting for an item, produced by a
// feed and folded into the book immediately. It carries no history.
type Observation struct {
	ItemID    int64  `json:"itemId"`
	ObjectUID int64  `json:"objectUID"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Server    string `json:"server"`
	Ts        int64  `json:"timestamp"` // unix ms
}

// MarketRecord is the per-item aggregate kept in the book and persisted
// across sessions. Current fields track the latest observation; MinPrice,
// MaxPrice and AvgPrice accumulate over the record's lifetime.
type MarketRecord struct {
	ItemID    int64   `json:"itemId"`
	ObjectUID int64   `json:"objectUID"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	Quantity  int64   `json:"quantity"`
	Server    string  `json:"server"`
	Ts        int64   `json:"timestamp"`
	MinPrice  int64   `json:"minPrice"`
	MaxPrice  int64   `json:"maxPrice"`
	AvgPrice  float64 `json:"avgPrice"`
}

// Snapshot is the persisted form of one partition's book.
type Snapshot struct {
	Items      map[int64]MarketRecord `json:"items"`
	LastUpdate int64                  `json:"lastUpdate"` // unix ms
}

// Merge folds an observation into an existing record and returns the
// updated record. It is pure: no shared state is touched.
//
// A first sighting seeds MinPrice, MaxPrice and AvgPrice to the observed
// price. On later sightings the volatile fields (price, quantity, name,
// timestamp) are overwritten, the extrema widen as needed, and the average
// moves halfway toward the new price. The halving average is deliberate:
// recent prices matter more than a flat mean over the full history.
func Merge(existing *MarketRecord, obs Observation) MarketRecord {
	if existing == nil {
		return MarketRecord{
			ItemID:    obs.ItemID,
			ObjectUID: obs.ObjectUID,
			Name:      obs.Name,
			Price:     obs.Price,
			Quantity:  obs.Quantity,
			Server:    obs.Server,
			Ts:        obs.Ts,
			MinPrice:  obs.Price,
			MaxPrice:  obs.Price,
			AvgPrice:  float64(obs.Price),
		}
	}

	rec := *existing
	rec.Price = obs.Price
	rec.Quantity = obs.Quantity
	rec.Ts = obs.Ts
	if obs.Name != "" && obs.Name != UnknownName {
		rec.Name = obs.Name
	}
	if obs.ObjectUID != 0 {
		rec.ObjectUID = obs.ObjectUID
	}

	if obs.Price < rec.MinPrice {
		rec.MinPrice = obs.Price
	}
	if obs.Price > rec.MaxPrice {
		rec.MaxPrice = obs.Price
	}
	if rec.AvgPrice > 0 {
		rec.AvgPrice = (rec.AvgPrice + float64(obs.Price)) / 2
	} else {
		rec.AvgPrice = float64(obs.Price)
	}
	return rec
}

// UnknownName is the placeholder for items whose display name could not be
// resolved from the payload or the scraped element.
const UnknownName = "Unknown"
