package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/mytheresa/go-storefront/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrItemInactive is returned when adding an item that is missing or not active.
	ErrItemInactive = errors.New("item is not available")
	// ErrNotInCart is returned when removing an id that was never added.
	ErrNotInCart = errors.New("item not in cart")
)

// Entry is the per-item state kept in the session.
// Name and Price are captured when the item is first added and never re-synced.
type Entry struct {
	Quantity int             `json:"quantity"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// Cart maps item ids (in string form) to entries, remembering insertion order.
// It encodes as a flat JSON object of id to entry, keys written in cart order.
type Cart struct {
	Entries map[string]Entry
	Order   []string
}

func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Entries[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores entries and takes the cart order from the key order.
func (c *Cart) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = Cart{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("cart: expected object, got %v", tok)
	}

	entries := make(map[string]Entry)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("cart: unexpected key %v", tok)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("cart: entry %q: %w", key, err)
		}
		if _, dup := entries[key]; !dup {
			order = append(order, key)
		}
		entries[key] = e
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	c.Entries = entries
	c.Order = order
	return nil
}

// Key returns the cart key used for an item id.
func Key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (c *Cart) Has(key string) bool {
	_, ok := c.Entries[key]
	return ok
}

func (c *Cart) Get(key string) (Entry, bool) {
	e, ok := c.Entries[key]
	return e, ok
}

// Keys returns the keys in insertion order. Keys missing from Order are appended sorted.
func (c *Cart) Keys() []string {
	keys := make([]string, 0, len(c.Entries))
	seen := make(map[string]bool, len(c.Entries))
	for _, k := range c.Order {
		if _, ok := c.Entries[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range c.Entries {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// Len returns the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.Entries)
}

// Count returns the sum of quantities across entries.
func (c *Cart) Count() int {
	n := 0
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

func (c *Cart) delete(key string) {
	delete(c.Entries, key)
	c.Order = slices.DeleteFunc(c.Order, func(k string) bool { return k == key })
}

// Add puts one unit of item in the cart.
// An existing entry gets its quantity bumped by one; its snapshot is left as is.
func Add(c *Cart, item *models.Item) error {
	if item == nil || !item.IsActive {
		return ErrItemInactive
	}

	if c.Entries == nil {
		c.Entries = make(map[string]Entry)
	}

	key := Key(item.ID)
	if e, ok := c.Entries[key]; ok {
		e.Quantity++
		c.Entries[key] = e
		return nil
	}

	c.Entries[key] = Entry{
		Quantity: 1,
		Name:     item.Title,
		Price:    item.CurrentPrice,
	}
	c.Order = append(c.Order, key)
	return nil
}

// Remove drops the entry for id and returns it.
func Remove(c *Cart, id uint) (Entry, error) {
	key := Key(id)
	e, ok := c.Entries[key]
	if !ok {
		return Entry{}, ErrNotInCart
	}
	c.delete(key)
	return e, nil
}

// Catalog resolves cart keys against the live item store.
type Catalog interface {
	GetByID(ctx context.Context, id uint) (*models.Item, error)
}

// Line is one reconciled cart row priced from the live catalog.
type Line struct {
	Key       string
	Item      models.Item
	Quantity  int
	LineTotal decimal.Decimal
	Snapshot  Entry
}

type Result struct {
	Lines   []Line
	Total   decimal.Decimal
	Removed []string
}

// Changed reports whether reconciliation dropped entries from the cart.
func (r Result) Changed() bool {
	return len(r.Removed) > 0
}

func (r Result) IsEmpty() bool {
	return len(r.Lines) == 0
}

// Reconcile resolves every entry against catalog and drops entries whose item
// no longer exists or whose key is not an id. Inactive items still resolve.
//
// Lookups finish before the cart is touched. A catalog failure other than
// models.ErrItemNotFound is returned and the cart is left unchanged.
func Reconcile(ctx context.Context, c *Cart, catalog Catalog) (Result, error) {
	res := Result{
		Lines: []Line{},
		Total: decimal.Zero,
	}

	var stale []string
	for _, key := range c.Keys() {
		entry := c.Entries[key]

		id, err := strconv.ParseUint(key, 10, 0)
		if err != nil {
			stale = append(stale, key)
			continue
		}

		item, err := catalog.GetByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, models.ErrItemNotFound) {
				stale = append(stale, key)
				continue
			}
			return Result{Lines: []Line{}, Total: decimal.Zero}, err
		}

		lineTotal := item.CurrentPrice.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		res.Lines = append(res.Lines, Line{
			Key:       key,
			Item:      *item,
			Quantity:  entry.Quantity,
			LineTotal: lineTotal,
			Snapshot:  entry,
		})
		res.Total = res.Total.Add(lineTotal)
	}

	for _, key := range stale {
		c.delete(key)
	}
	res.Removed = stale

	return res, nil
}
