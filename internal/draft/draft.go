// Package draft turns raw extraction-service output into a locally editable
// item list and keeps a provisional total for it before anything is persisted.
package draft

import (
	"regexp"
	"strconv"
	"strings"
)

// RawItem is one line item as produced by the extraction service
type RawItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"price"`
}

// RawExtraction is the extraction service's parsed result
type RawExtraction struct {
	Merchant    string    `json:"merchant"`
	TotalAmount int64     `json:"total_amount"`
	Items       []RawItem `json:"items"`
}

// Item is one editable line in a draft
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// Draft is an in-memory, not-yet-persisted item list produced by extraction
// and subject to user editing before save
type Draft struct {
	Merchant string `json:"merchant"`
	Items    []Item `json:"items"`

	nextID int
}

// nameCorrections maps normalized lookup keys to display names for common
// Indonesian food and drink items. Unmatched names pass through unchanged.
var nameCorrections = map[string]string{
	"nasi_goreng": "Nasi Goreng",
	"mie_goreng":  "Mie Goreng",
	"soto_ayam":   "Soto Ayam",
	"gado_gado":   "Gado-Gado",
	"perkedel":    "Perkedel",
	"lumpia":      "Lumpia",
	"kopi":        "Kopi",
	"teh":         "Teh",
	"es":          "Es",
	"air":         "Air Mineral",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CorrectItemName looks a name up in the static correction table. The lookup
// key is the name lower-cased with internal whitespace runs collapsed to a
// single underscore. Names absent from the table are returned as-is,
// including their original casing and whitespace.
func CorrectItemName(name string) string {
	key := whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
	if corrected, ok := nameCorrections[key]; ok {
		return corrected
	}
	return name
}

// Normalize converts a raw extraction result into an editable draft. Item IDs
// are assigned from the sequence index; quantities and unit prices are copied
// verbatim without validation.
func Normalize(raw *RawExtraction) *Draft {
	d := &Draft{
		Merchant: raw.Merchant,
		Items:    make([]Item, 0, len(raw.Items)),
	}
	for _, it := range raw.Items {
		d.Items = append(d.Items, Item{
			ID:        strconv.Itoa(d.nextID),
			Name:      CorrectItemName(it.Name),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		d.nextID++
	}
	return d
}

// ComputeTotal returns the sum of quantity times unit price over the current
// item list. It is recomputed after every mutation, never cached.
func ComputeTotal(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}

// Total returns the draft's current provisional total.
func (d *Draft) Total() int64 {
	return ComputeTotal(d.Items)
}

// AddItem appends a blank placeholder item and returns it.
func (d *Draft) AddItem() Item {
	item := Item{
		ID:        strconv.Itoa(d.nextID),
		Name:      "Item Baru",
		Quantity:  1,
		UnitPrice: 0,
	}
	d.nextID++
	d.Items = append(d.Items, item)
	return item
}

// EditItem replaces the named fields of the item with the given ID. It
// reports whether an item with that ID existed.
func (d *Draft) EditItem(id, name string, quantity int, unitPrice int64) bool {
	for i := range d.Items {
		if d.Items[i].ID == id {
			d.Items[i].Name = name
			d.Items[i].Quantity = quantity
			d.Items[i].UnitPrice = unitPrice
			return true
		}
	}
	return false
}

// RemoveItem deletes the item with the given ID, if present.
func (d *Draft) RemoveItem(id string) {
	items := d.Items[:0]
	for _, it := range d.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	d.Items = items
}
