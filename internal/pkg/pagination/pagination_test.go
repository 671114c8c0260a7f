package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsValues(t *testing.T) {
	p := Normalize(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = Normalize(3, 500)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset)
}

func TestGetMeta(t *testing.T) {
	p := Normalize(2, 20)
	meta := GetMeta(p, 45)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestGetMetaExactPages(t *testing.T) {
	p := Normalize(2, 20)
	meta := GetMeta(p, 40)

	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNext)
}

func TestGetMetaEmpty(t *testing.T) {
	p := Normalize(1, 20)
	meta := GetMeta(p, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
