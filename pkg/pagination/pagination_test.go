package pagination

import (
	"net/http"
	"testing"

	"github.com/lorenamitrea/LocalLibrary/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		total     int
		number    int
		offset    int
		paginated bool
	}{
		{"first page by default", "", 13, 1, 0, true},
		{"explicit second page", "2", 13, 2, 10, true},
		{"last page", "last", 13, 2, 10, true},
		{"exactly one page", "1", 10, 1, 0, false},
		{"empty list", "", 0, 1, 0, false},
		{"empty list first page", "1", 0, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.raw, 10, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.number, p.Number)
			assert.Equal(t, tt.offset, p.Offset())
			assert.Equal(t, tt.paginated, p.IsPaginated())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"0", "3", "-1", "two", "1.5"} {
		_, err := Parse(raw, 10, 13)
		var e *errcodes.Error
		require.True(t, errors.As(err, &e), raw)
		assert.Equal(t, http.StatusNotFound, e.HTTPCode, raw)
	}

	_, err := Parse("2", 10, 0)
	assert.Error(t, err)
}

func TestPage_Navigation(t *testing.T) {
	t.Parallel()

	p, err := Parse("1", 10, 13)
	require.NoError(t, err)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())
	assert.Equal(t, 2, p.Next())
	assert.Equal(t, 2, p.NumPages)

	p, err = Parse("2", 10, 13)
	require.NoError(t, err)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrevious())
	assert.Equal(t, 1, p.Previous())
}

func TestParse_DefaultSize(t *testing.T) {
	t.Parallel()

	p, err := Parse("", 0, 25)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, p.Size)
	assert.Equal(t, 3, p.NumPages)
}
