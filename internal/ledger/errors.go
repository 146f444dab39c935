package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every business-rule failure wraps exactly one of these.
var (
	ErrNotFound                = errors.New("not found")
	ErrValidation              = errors.New("validation failed")
	ErrCapacityExceeded        = errors.New("capacity exceeded")
	ErrInsufficientRawMaterial = errors.New("insufficient raw material")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrDuplicateProduct        = errors.New("duplicate product")
	ErrDuplicateRecord         = errors.New("duplicate record")
)

// NotFoundError reports a missing record.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound returns a NotFoundError for the given entity.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CapacityExceededError reports a credit that would overfill a storage.
type CapacityExceededError struct {
	StorageID int64
	Requested float64
	Available float64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("insufficient storage capacity in storage %d: requested %gkg, available %gkg",
		e.StorageID, e.Requested, e.Available)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// InsufficientRawMaterialError reports a raw debit larger than the pool.
// Production is set when the debit was for manufacturing, in which case
// MaxProducible is the number of whole units the pool still covers.
type InsufficientRawMaterialError struct {
	Requested     float64
	Available     float64
	MaxProducible int
	Production    bool
}

func (e *InsufficientRawMaterialError) Error() string {
	msg := fmt.Sprintf("insufficient raw material: requested %gkg, available %gkg", e.Requested, e.Available)
	if e.Production {
		msg += fmt.Sprintf(", can produce at most %d units", e.MaxProducible)
	}
	return msg
}

func (e *InsufficientRawMaterialError) Is(target error) bool {
	return target == ErrInsufficientRawMaterial
}

// InsufficientStockError reports a processed debit larger than the stock.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d units available in stock, requested %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// DuplicateProductError reports a product that already exists with the same
// category, type and unit weight.
type DuplicateProductError struct {
	Category string
	Type     string
	Weight   float64
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %s/%s with unit weight %gg already exists", e.Category, e.Type, e.Weight)
}

func (e *DuplicateProductError) Is(target error) bool { return target == ErrDuplicateProduct }

// DuplicateRecordError reports a record id that is already taken.
type DuplicateRecordError struct {
	Entity string
	ID     int64
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("%s %d already exists", e.Entity, e.ID)
}

func (e *DuplicateRecordError) Is(target error) bool { return target == ErrDuplicateRecord }

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrValidation, "validation"},
	{ErrCapacityExceeded, "capacity_exceeded"},
	{ErrInsufficientRawMaterial, "insufficient_raw_material"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrDuplicateProduct, "duplicate_product"},
	{ErrDuplicateRecord, "duplicate_record"},
}

// Kind names the business-rule kind of err, or returns "" for other errors.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
