package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "doc-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt), "Created at should match after decode")
	assert.Equal(t, "doc-42", cursor.ID)

	// Non-UTC input is normalised
	local := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	cursor, err = DecodeToken(EncodeToken(local, "x"))
	require.NoError(t, err)
	assert.True(t, local.Equal(cursor.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z"))
	_, err = DecodeToken(noSeparator)
	assert.ErrorContains(t, err, "split")

	badTime := base64.URLEncoding.EncodeToString([]byte("notadate|doc-1"))
	_, err = DecodeToken(badTime)
	assert.ErrorContains(t, err, "created_at parse")
}

func TestCursorAfter(t *testing.T) {
	base := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: base, ID: "m"}

	assert.True(t, c.After(base.Add(-time.Second), "z"), "older rows come next")
	assert.False(t, c.After(base.Add(time.Second), "a"), "newer rows were already returned")
	assert.True(t, c.After(base, "a"), "ties break on smaller id")
	assert.False(t, c.After(base, "m"), "the cursor row itself is excluded")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 20, NormalizeLimit(0, 20, 100))
	assert.Equal(t, 5, NormalizeLimit(5, 20, 100))
	assert.Equal(t, 100, NormalizeLimit(500, 20, 100))
}
