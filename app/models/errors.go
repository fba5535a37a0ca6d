package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the referenced product or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuantity means a requested or assigned quantity is out of range.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientStock means the stock read at commit time is below the request.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidProduct means a new product failed field validation.
	ErrInvalidProduct = errors.New("invalid product")
)

// StockError carries the numbers behind an ErrInsufficientStock.
type StockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid product: " + strings.Join(parts, " ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidProduct }
