package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock matches every *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// InsufficientStockError is returned when an operation would make a shop's stock negative.
type InsufficientStockError struct {
	Shop      string
	StockType StockType
	Requested int
	Available int
	// Hint is an optional follow-up instruction for the user.
	Hint string
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("not enough %s stock at %s: requested %d bags, only %d available", e.StockType, e.Shop, e.Requested, e.Available)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFoundError reports a lookup miss for a sale, delivery or shop.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
