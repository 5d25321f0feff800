package pagination

import (
	"errors"
	"fmt"
)

// MaxLimit caps a single window.
const MaxLimit = 100

var ErrLimitOutOfRange = errors.New("limit out of range")

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// OrderFrom maps the caller-supplied orderBy string: "asc" ascends,
// anything else descends.
func OrderFrom(s string) Order {
	if s == OrderAsc.String() {
		return OrderAsc
	}

	return OrderDesc
}

func (o Order) String() string {
	return string(o)
}

// Params is one window request: ordering and slicing by the entity's
// primary id. Offset has no upper bound.
type Params struct {
	Limit  int
	Offset int
	Order  Order
}

func (p Params) Validate() error {
	if p.Limit <= 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit (%d) must be between 0-100", ErrLimitOutOfRange, p.Limit)
	}

	return nil
}

// Window is one slice of a filtered result set.
//
// TotalItemsCount is the size of THIS window, not of the whole filtered
// dataset, so a full window is indistinguishable from the last one.
type Window[T any] struct {
	Items           []T `json:"items"`
	TotalItemsCount int `json:"totalItemsCount"`
}

func NewWindow[T any](items []T) Window[T] {
	if items == nil {
		items = []T{}
	}

	return Window[T]{
		Items:           items,
		TotalItemsCount: len(items),
	}
}
