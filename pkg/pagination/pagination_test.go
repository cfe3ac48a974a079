package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit: MaxLimit, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLimit(in), "limit %d", in)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 10, 18, 12, 30, 0, 123, time.FixedZone("CLT", -3*3600))
	id := uuid.New()

	parsed, err := ParseCursor(Cursor{At: at, ID: id}.Encode())
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.At.Equal(at))
	assert.Equal(t, id, parsed.ID)
}

func TestParseCursorBlankAndInvalid(t *testing.T) {
	c, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, c)

	for _, token := range []string{
		"not-base64!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("yesterday|" + uuid.NewString())),
		base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano) + "|nope")),
		base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano) + "|" + uuid.Nil.String())),
	} {
		_, err := ParseCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, token)
	}
}

func TestTrim(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	key := func(id uuid.UUID) Cursor { return Cursor{At: base, ID: id} }

	rows, next := Trim(ids, 2, key)
	assert.Len(t, rows, 2)
	require.NotNil(t, next)
	assert.Equal(t, ids[1], next.ID)

	rows, next = Trim(ids, 3, key)
	assert.Len(t, rows, 3)
	assert.Nil(t, next)
}
