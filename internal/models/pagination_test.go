package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		p := NewPage([]int{1, 2, 3}, 1, 10, 25)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 25, p.TotalResults)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
	})

	t.Run("exact division", func(t *testing.T) {
		p := NewPage([]int{1}, 2, 10, 20)
		assert.Equal(t, 2, p.TotalPages)
	})

	t.Run("nil results become empty slice", func(t *testing.T) {
		p := NewPage[string](nil, 5, 10, 0)
		assert.NotNil(t, p.Results)
		assert.Len(t, p.Results, 0)
		assert.Equal(t, 0, p.TotalPages)
		// A page past the end still reports the requested page.
		assert.Equal(t, 5, p.Page)
	})
}
