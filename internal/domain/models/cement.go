package models

import (
	"fmt"
	"strconv"
	"strings"
)

// StockType identifies a cement brand tracked independently per shop.
type StockType string

const (
	StockDangote StockType = "DANGOTE"
	StockAshaka  StockType = "ASHAKA"
)

// StockTypes lists every supported stock type in display order.
var StockTypes = []StockType{StockDangote, StockAshaka}

// Valid reports whether t is one of the supported stock types.
func (t StockType) Valid() bool {
	for _, known := range StockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseStockType resolves a case-insensitive stock type name.
func ParseStockType(value string) (StockType, error) {
	t := StockType(strings.ToUpper(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", &ValidationError{Field: "stockType", Message: fmt.Sprintf("unknown stock type %q", value)}
	}
	return t, nil
}

const rosterSize = 10

var roster = func() []string {
	shops := make([]string, 0, rosterSize)
	for i := 1; i <= rosterSize; i++ {
		shops = append(shops, fmt.Sprintf("Shop %d", i))
	}
	return shops
}()

// Roster returns the fixed list of shops the system tracks.
func Roster() []string {
	out := make([]string, len(roster))
	copy(out, roster)
	return out
}

// IsRosterShop reports whether name is exactly one of the roster shops.
func IsRosterShop(name string) bool {
	for _, shop := range roster {
		if shop == name {
			return true
		}
	}
	return false
}

// ResolveShop maps user input such as "3", "shop3" or "Shop 3" to the roster name.
func ResolveShop(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if IsRosterShop(trimmed) {
		return trimmed, nil
	}

	digits := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(trimmed), "shop"))
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > len(roster) {
		return "", &ValidationError{Field: "shopName", Message: fmt.Sprintf("unknown shop %q", value)}
	}
	return roster[n-1], nil
}
