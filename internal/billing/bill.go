// Package billing holds the in-memory cart used by a billing session.
// A Bill belongs to one request/session and is not safe for concurrent
// use; persistence only happens when the service submits it.
package billing

import (
	"errors"
	"fmt"
	"strings"

	"taaza/backend/internal/domain"
)

var (
	// ErrInvalidLine is returned when a line fails validation.
	ErrInvalidLine = errors.New("invalid bill line")
	// ErrIndexOutOfRange is returned by RemoveLine for a bad index.
	ErrIndexOutOfRange = errors.New("line index out of range")
)

// Totals is a point-in-time aggregate of a bill, recomputed on every
// call rather than maintained incrementally.
type Totals struct {
	ItemCount     int     `json:"itemCount"`
	TotalQty      int     `json:"totalQty"`
	SubtotalPaise int64   `json:"subtotalPaise"`
	TotalWeightKg float64 `json:"totalWeightKg"`
}

type Bill struct {
	lines []domain.LineItem
}

func New() *Bill {
	return &Bill{}
}

// AddLine validates and appends a line. The name is trimmed; qty must
// be at least 1 and amount non-negative. A negative weight or rate is
// coerced to zero rather than rejected, matching how historical
// records treated those fields as optional. The line total is fixed
// here as amount*qty.
func (b *Bill) AddLine(item domain.LineItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLine)
	}
	if item.Qty < 1 {
		return fmt.Errorf("%w: qty must be at least 1", ErrInvalidLine)
	}
	if item.AmountPaise < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidLine)
	}
	if item.WeightKg < 0 {
		item.WeightKg = 0
	}
	if item.PricePerKgPaise < 0 {
		item.PricePerKgPaise = 0
	}
	item.TotalPaise = item.AmountPaise * int64(item.Qty)
	b.lines = append(b.lines, item)
	return nil
}

// RemoveLine deletes the line at index, preserving the order of the
// remaining lines.
func (b *Bill) RemoveLine(index int) error {
	if index < 0 || index >= len(b.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
	return nil
}

func (b *Bill) Totals() Totals {
	t := Totals{ItemCount: len(b.lines)}
	for _, line := range b.lines {
		t.TotalQty += line.Qty
		t.SubtotalPaise += line.TotalPaise
		t.TotalWeightKg += line.WeightKg
	}
	return t
}

// Lines returns a copy of the current lines.
func (b *Bill) Lines() []domain.LineItem {
	out := make([]domain.LineItem, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Bill) Len() int {
	return len(b.lines)
}

func (b *Bill) Clear() {
	b.lines = nil
}
