package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrNotFound           = errors.New("not found")
)

type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every rejected input field.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Reason: reason}}}
}

// ProductUnavailableError is returned when a cart line points at a product
// or unit variant that no longer exists.
type ProductUnavailableError struct {
	ProductID string
	UnitLabel string
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	if e.UnitLabel != "" {
		return fmt.Sprintf("product %q unit %q is no longer available", e.displayName(), e.UnitLabel)
	}
	return fmt.Sprintf("product %q is no longer available", e.displayName())
}

func (e *ProductUnavailableError) displayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ProductID
}

func (e *ProductUnavailableError) Unwrap() error { return ErrProductUnavailable }

type InsufficientStockError struct {
	ProductID string
	UnitLabel string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d left for %s (%s), requested %d", e.Available, e.Name, e.UnitLabel, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }
