package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := "3f1b2c9e-8d47-4c1a-9a0e-5b6d7c8e9f01"

	cursor := encodeCursor(createdAt, id)
	gotTime, gotID, err := decodeCursor(cursor)
	require.NoError(t, err)

	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, id, gotID)
}

func TestCursorNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	createdAt := time.Date(2025, 3, 14, 16, 0, 0, 0, loc)

	cursor := encodeCursor(createdAt, "abc")
	gotTime, _, err := decodeCursor(cursor)
	require.NoError(t, err)

	assert.True(t, gotTime.Equal(createdAt))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, _, err := decodeCursor("not base64!!")
	assert.Error(t, err)

	_, _, err = decodeCursor("bm8gc2VwYXJhdG9y") // valid base64, no separator
	assert.Error(t, err)
}
