package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/model"
)

// RawShare is the raw mass one location holds.
type RawShare struct {
	StorageID  int64   `json:"storageId"`
	QuantityKg float64 `json:"quantityKg"`
}

// RawTotal returns the raw mass held across all locations.
func (l *Ledger) RawTotal() float64 {
	return toFloat(l.rawTotal())
}

// RawIn returns the raw mass held by one location.
func (l *Ledger) RawIn(storageID int64) (float64, error) {
	s, err := l.find(storageID)
	if err != nil {
		return 0, err
	}
	return toFloat(rawIn(s)), nil
}

// RawBreakdown lists the raw mass of every location, in storage order.
func (l *Ledger) RawBreakdown() []RawShare {
	out := make([]RawShare, 0, len(l.storages))
	for i := range l.storages {
		out = append(out, RawShare{
			StorageID:  l.storages[i].ID,
			QuantityKg: toFloat(rawIn(&l.storages[i])),
		})
	}
	return out
}

func (l *Ledger) rawTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range l.storages {
		total = total.Add(rawIn(&l.storages[i]))
	}
	return total
}

func rawIn(s *model.StorageLocation) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.RawItems {
		total = total.Add(kg(it.QuantityKg))
	}
	return total
}

type rawRef struct {
	storage, item int
	purchaseID    int64
}

// rawOrder lists every raw item, oldest purchase first.
func (l *Ledger) rawOrder() []rawRef {
	var refs []rawRef
	for si := range l.storages {
		for ii, it := range l.storages[si].RawItems {
			refs = append(refs, rawRef{storage: si, item: ii, purchaseID: it.PurchaseID})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].purchaseID < refs[j].purchaseID
	})
	return refs
}
