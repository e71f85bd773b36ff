package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCorrectsKnownNames(t *testing.T) {
	raw := &RawExtraction{
		Merchant: "Warung",
		Items: []RawItem{
			{Name: "nasi goreng", Quantity: 2, UnitPrice: 15000},
		},
	}

	d := Normalize(raw)

	require.Len(t, d.Items, 1)
	assert.Equal(t, "Warung", d.Merchant)
	assert.Equal(t, "0", d.Items[0].ID)
	assert.Equal(t, "Nasi Goreng", d.Items[0].Name)
	assert.Equal(t, 2, d.Items[0].Quantity)
	assert.Equal(t, int64(15000), d.Items[0].UnitPrice)
	assert.Equal(t, int64(30000), d.Total())
}

func TestNormalizePassesUnknownNamesThrough(t *testing.T) {
	raw := &RawExtraction{
		Items: []RawItem{
			{Name: "Ayam  Bakar Spesial", Quantity: 1, UnitPrice: 25000},
			{Name: "KERUPUK", Quantity: 3, UnitPrice: 2000},
		},
	}

	d := Normalize(raw)

	require.Len(t, d.Items, 2)
	// Unmatched names keep their exact casing and whitespace
	assert.Equal(t, "Ayam  Bakar Spesial", d.Items[0].Name)
	assert.Equal(t, "KERUPUK", d.Items[1].Name)
	assert.Equal(t, "1", d.Items[1].ID)
}

func TestCorrectItemNameCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Gado-Gado", CorrectItemName("gado   gado"))
	assert.Equal(t, "Nasi Goreng", CorrectItemName("NASI GORENG"))
	assert.Equal(t, "Air Mineral", CorrectItemName("air"))
}

// Correction values that re-normalize to a key absent from the table stay
// stable on a second pass; "Air Mineral" is the one value whose key ("air")
// differs from its own normalization ("air_mineral"), and "air_mineral" is
// not a table key, so correction is idempotent for every table entry.
func TestCorrectItemNameIdempotentOnTableValues(t *testing.T) {
	for _, corrected := range nameCorrections {
		assert.Equal(t, corrected, CorrectItemName(corrected))
	}
}

func TestComputeTotal(t *testing.T) {
	assert.Equal(t, int64(0), ComputeTotal(nil))
	assert.Equal(t, int64(0), ComputeTotal([]Item{}))

	items := []Item{
		{Quantity: 2, UnitPrice: 15000},
		{Quantity: 1, UnitPrice: 5000},
		{Quantity: 4, UnitPrice: 2500},
	}
	assert.Equal(t, int64(45000), ComputeTotal(items))
}

func TestComputeTotalRecomputedAfterEdits(t *testing.T) {
	d := Normalize(&RawExtraction{
		Items: []RawItem{{Name: "kopi", Quantity: 1, UnitPrice: 8000}},
	})
	assert.Equal(t, int64(8000), d.Total())

	added := d.AddItem()
	assert.Equal(t, "Item Baru", added.Name)
	assert.Equal(t, 1, added.Quantity)
	assert.Equal(t, int64(0), added.UnitPrice)
	assert.Equal(t, int64(8000), d.Total())

	require.True(t, d.EditItem(added.ID, "Teh", 2, 4000))
	assert.Equal(t, int64(16000), d.Total())

	d.RemoveItem("0")
	assert.Equal(t, int64(8000), d.Total())
}

func TestEditItemUnknownID(t *testing.T) {
	d := Normalize(&RawExtraction{})
	assert.False(t, d.EditItem("missing", "x", 1, 1))
}

func TestRemoveLastItemLeavesEmptyList(t *testing.T) {
	d := Normalize(&RawExtraction{
		Items: []RawItem{{Name: "teh", Quantity: 1, UnitPrice: 4000}},
	})

	d.RemoveItem("0")

	assert.NotNil(t, d.Items)
	assert.Empty(t, d.Items)
	assert.Equal(t, int64(0), d.Total())
}

// IDs assigned after deletions never collide with surviving items.
func TestAddItemIDsStayUnique(t *testing.T) {
	d := Normalize(&RawExtraction{
		Items: []RawItem{
			{Name: "a", Quantity: 1, UnitPrice: 1},
			{Name: "b", Quantity: 1, UnitPrice: 1},
		},
	})
	d.RemoveItem("0")

	added := d.AddItem()

	seen := map[string]bool{}
	for _, it := range d.Items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
	assert.Equal(t, "2", added.ID)
}
