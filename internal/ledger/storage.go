// Package ledger tracks what each storage location holds and enforces that no
// location is ever filled beyond its maximum capacity.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/pridelek/internal/model"
)

// massPlaces is the precision, in decimal places of a kilogram, of all stored masses.
const massPlaces = 6

// Ledger holds the contents of every storage location. It is not safe for
// concurrent use; callers load it inside a transaction and save it back.
type Ledger struct {
	storages []model.StorageLocation
}

// RawDebit records raw mass taken from one purchase's item.
type RawDebit struct {
	StorageID  int64   `json:"storageId"`
	PurchaseID int64   `json:"purchaseId"`
	QuantityKg float64 `json:"quantityKg"`
}

// New builds a ledger from stored locations. Current capacity is recomputed
// from contents, so a stale stored value is corrected on load.
func New(storages []model.StorageLocation) *Ledger {
	l := &Ledger{storages: make([]model.StorageLocation, 0, len(storages))}
	for _, s := range storages {
		c := s.Clone()
		recompute(&c)
		l.storages = append(l.storages, c)
	}
	return l
}

// Storages returns a copy of every location.
func (l *Ledger) Storages() []model.StorageLocation {
	out := make([]model.StorageLocation, len(l.storages))
	for i, s := range l.storages {
		out[i] = s.Clone()
	}
	return out
}

// Storage returns a copy of one location.
func (l *Ledger) Storage(id int64) (model.StorageLocation, error) {
	s, err := l.find(id)
	if err != nil {
		return model.StorageLocation{}, err
	}
	return s.Clone(), nil
}

// AddStorage appends a new empty location.
func (l *Ledger) AddStorage(s model.StorageLocation) error {
	if _, err := l.find(s.ID); err == nil {
		return &DuplicateRecordError{Entity: "storage", ID: s.ID}
	}
	if err := validateMax(s.MaxCapacity); err != nil {
		return err
	}
	c := s.Clone()
	c.RawItems = []model.RawItem{}
	c.ProcessedItems = []model.ProcessedItem{}
	c.CurrentCapacity = 0
	l.storages = append(l.storages, c)
	return nil
}

// UpdateStorage changes the metadata of a location. Contents are kept.
func (l *Ledger) UpdateStorage(id int64, name, location string, maxCapacity float64) error {
	s, err := l.find(id)
	if err != nil {
		return err
	}
	if err := validateMax(maxCapacity); err != nil {
		return err
	}
	if kg(maxCapacity).LessThan(kg(s.CurrentCapacity)) {
		return Invalid("maxCapacity", "must not be below current capacity")
	}
	s.Name = name
	s.Location = location
	s.MaxCapacity = maxCapacity
	return nil
}

// RemoveStorage deletes an empty location.
func (l *Ledger) RemoveStorage(id int64) error {
	for i := range l.storages {
		if l.storages[i].ID != id {
			continue
		}
		s := &l.storages[i]
		if len(s.RawItems) > 0 || len(s.ProcessedItems) > 0 {
			return Invalid("storage", "storage is not empty")
		}
		l.storages = append(l.storages[:i], l.storages[i+1:]...)
		return nil
	}
	return NotFound("storage", id)
}

// AvailableCapacity returns max minus current capacity of a location.
func (l *Ledger) AvailableCapacity(id int64) (float64, error) {
	s, err := l.find(id)
	if err != nil {
		return 0, err
	}
	return toFloat(available(s)), nil
}

// CreditRaw stores kg of raw material from a purchase.
func (l *Ledger) CreditRaw(storageID, purchaseID int64, quantityKg float64) error {
	s, err := l.find(storageID)
	if err != nil {
		return err
	}
	q := kg(quantityKg)
	if !q.IsPositive() {
		return Invalid("quantity", "must be positive")
	}
	if err := checkFits(s, q); err != nil {
		return err
	}
	s.RawItems = append(s.RawItems, model.RawItem{PurchaseID: purchaseID, QuantityKg: toFloat(q)})
	recompute(s)
	return nil
}

// DebitRaw takes kg of raw material from one location, oldest item first.
func (l *Ledger) DebitRaw(storageID int64, quantityKg float64) ([]RawDebit, error) {
	s, err := l.find(storageID)
	if err != nil {
		return nil, err
	}
	q := kg(quantityKg)
	if !q.IsPositive() {
		return nil, Invalid("quantity", "must be positive")
	}
	if have := rawIn(s); have.LessThan(q) {
		return nil, &InsufficientRawMaterialError{Requested: toFloat(q), Available: toFloat(have)}
	}

	var debits []RawDebit
	kept := s.RawItems[:0]
	for _, it := range s.RawItems {
		if q.IsPositive() {
			take := decimal.Min(q, kg(it.QuantityKg))
			q = q.Sub(take)
			debits = append(debits, RawDebit{StorageID: s.ID, PurchaseID: it.PurchaseID, QuantityKg: toFloat(take)})
			it.QuantityKg = toFloat(kg(it.QuantityKg).Sub(take))
		}
		if it.QuantityKg > 0 {
			kept = append(kept, it)
		}
	}
	s.RawItems = kept
	recompute(s)
	return debits, nil
}

// DebitRawAcross takes kg of raw material from the system-wide pool. Items are
// consumed by ascending purchase id, ties broken by storage order.
func (l *Ledger) DebitRawAcross(quantityKg float64) ([]RawDebit, error) {
	q := kg(quantityKg)
	if !q.IsPositive() {
		return nil, Invalid("quantity", "must be positive")
	}
	if have := l.rawTotal(); have.LessThan(q) {
		return nil, &InsufficientRawMaterialError{Requested: toFloat(q), Available: toFloat(have)}
	}

	var debits []RawDebit
	for _, ref := range l.rawOrder() {
		if !q.IsPositive() {
			break
		}
		it := &l.storages[ref.storage].RawItems[ref.item]
		take := decimal.Min(q, kg(it.QuantityKg))
		q = q.Sub(take)
		it.QuantityKg = toFloat(kg(it.QuantityKg).Sub(take))
		debits = append(debits, RawDebit{
			StorageID:  l.storages[ref.storage].ID,
			PurchaseID: it.PurchaseID,
			QuantityKg: toFloat(take),
		})
	}

	for i := range l.storages {
		s := &l.storages[i]
		kept := s.RawItems[:0]
		for _, it := range s.RawItems {
			if it.QuantityKg > 0 {
				kept = append(kept, it)
			}
		}
		s.RawItems = kept
		recompute(s)
	}
	return debits, nil
}

// RemoveRaw drops whatever remains of a purchase's raw item in a location and
// returns the mass removed. A fully consumed purchase removes nothing.
func (l *Ledger) RemoveRaw(storageID, purchaseID int64) (float64, error) {
	s, err := l.find(storageID)
	if err != nil {
		return 0, err
	}
	removed := decimal.Zero
	kept := s.RawItems[:0]
	for _, it := range s.RawItems {
		if it.PurchaseID == purchaseID {
			removed = removed.Add(kg(it.QuantityKg))
			continue
		}
		kept = append(kept, it)
	}
	s.RawItems = kept
	recompute(s)
	return toFloat(removed), nil
}

// MoveRaw transfers what remains of a purchase's raw item to another location.
// On error neither location changes.
func (l *Ledger) MoveRaw(fromID, toID, purchaseID int64) (float64, error) {
	from, err := l.find(fromID)
	if err != nil {
		return 0, err
	}
	to, err := l.find(toID)
	if err != nil {
		return 0, err
	}
	if fromID == toID {
		return 0, nil
	}

	remaining := decimal.Zero
	for _, it := range from.RawItems {
		if it.PurchaseID == purchaseID {
			remaining = remaining.Add(kg(it.QuantityKg))
		}
	}
	if !remaining.IsPositive() {
		return 0, nil
	}
	if err := checkFits(to, remaining); err != nil {
		return 0, err
	}

	if _, err := l.RemoveRaw(fromID, purchaseID); err != nil {
		return 0, err
	}
	to.RawItems = append(to.RawItems, model.RawItem{PurchaseID: purchaseID, QuantityKg: toFloat(remaining)})
	recompute(to)
	return toFloat(remaining), nil
}

// CreditProcessed stores units of a product weighing kg in total. Units of a
// product already in the location are merged into its item.
func (l *Ledger) CreditProcessed(storageID, productID int64, units int, totalKg float64) error {
	s, err := l.find(storageID)
	if err != nil {
		return err
	}
	if units <= 0 {
		return Invalid("quantity", "must be positive")
	}
	w := kg(totalKg)
	if w.IsNegative() {
		return Invalid("weight", "must not be negative")
	}
	if err := checkFits(s, w); err != nil {
		return err
	}

	for i := range s.ProcessedItems {
		it := &s.ProcessedItems[i]
		if it.ProductID == productID {
			it.QuantityUnits += units
			it.TotalWeightKg = toFloat(kg(it.TotalWeightKg).Add(w))
			recompute(s)
			return nil
		}
	}
	s.ProcessedItems = append(s.ProcessedItems, model.ProcessedItem{
		ProductID:     productID,
		QuantityUnits: units,
		TotalWeightKg: toFloat(w),
	})
	recompute(s)
	return nil
}

// DebitProcessed takes units of a product out of a location. Weight is removed
// in proportion to the units taken; the item disappears when no units remain.
func (l *Ledger) DebitProcessed(storageID, productID int64, units int) error {
	s, err := l.find(storageID)
	if err != nil {
		return err
	}
	if units <= 0 {
		return Invalid("quantity", "must be positive")
	}

	for i := range s.ProcessedItems {
		it := &s.ProcessedItems[i]
		if it.ProductID != productID {
			continue
		}
		if units > it.QuantityUnits {
			return &InsufficientStockError{Requested: units, Available: it.QuantityUnits}
		}
		if units == it.QuantityUnits {
			s.ProcessedItems = append(s.ProcessedItems[:i], s.ProcessedItems[i+1:]...)
		} else {
			w := kg(it.TotalWeightKg)
			share := w.Mul(decimal.NewFromInt(int64(units))).Div(decimal.NewFromInt(int64(it.QuantityUnits)))
			it.QuantityUnits -= units
			it.TotalWeightKg = toFloat(w.Sub(share.Round(massPlaces)))
		}
		recompute(s)
		return nil
	}
	return NotFound("stored product", productID)
}

// RemoveProcessed drops a product's item from a location entirely.
func (l *Ledger) RemoveProcessed(storageID, productID int64) error {
	s, err := l.find(storageID)
	if err != nil {
		return err
	}
	kept := s.ProcessedItems[:0]
	for _, it := range s.ProcessedItems {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.ProcessedItems = kept
	recompute(s)
	return nil
}

// ProcessedUnits returns how many units of a product a location holds.
func (l *Ledger) ProcessedUnits(storageID, productID int64) int {
	s, err := l.find(storageID)
	if err != nil {
		return 0
	}
	for _, it := range s.ProcessedItems {
		if it.ProductID == productID {
			return it.QuantityUnits
		}
	}
	return 0
}

func (l *Ledger) find(id int64) (*model.StorageLocation, error) {
	for i := range l.storages {
		if l.storages[i].ID == id {
			return &l.storages[i], nil
		}
	}
	return nil, NotFound("storage", id)
}

func checkFits(s *model.StorageLocation, q decimal.Decimal) error {
	if avail := available(s); q.GreaterThan(avail) {
		return &CapacityExceededError{
			StorageID: s.ID,
			Requested: toFloat(q),
			Available: toFloat(avail),
		}
	}
	return nil
}

func validateMax(maxCapacity float64) error {
	if !kg(maxCapacity).IsPositive() {
		return Invalid("maxCapacity", "must be positive")
	}
	return nil
}

func available(s *model.StorageLocation) decimal.Decimal {
	return kg(s.MaxCapacity).Sub(used(s))
}

// used sums the contents of a location.
func used(s *model.StorageLocation) decimal.Decimal {
	total := rawIn(s)
	for _, it := range s.ProcessedItems {
		total = total.Add(kg(it.TotalWeightKg))
	}
	return total
}

func recompute(s *model.StorageLocation) {
	s.CurrentCapacity = toFloat(used(s))
}

func kg(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(massPlaces)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(massPlaces).Float64()
	return f
}
