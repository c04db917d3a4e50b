package selection_test

import (
	"image"
	"testing"

	"github.com/germanamz/pdfask/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRect(t *testing.T) {
	r, err := selection.ParseRect("100, 50,10,5.5")
	require.NoError(t, err)
	assert.Equal(t, selection.Rect{StartX: 100, StartY: 50, EndX: 10, EndY: 5.5}, r)
	assert.Equal(t, image.Rect(10, 5, 100, 49), r.Bounds())
}

func TestParseRect_Invalid(t *testing.T) {
	for _, s := range []string{"", "1,2,3", "1,2,3,x", "1,2,3,4,5"} {
		_, err := selection.ParseRect(s)
		assert.ErrorIs(t, err, selection.ErrRectSyntax, s)
	}
}

func TestRect_Degenerate(t *testing.T) {
	assert.True(t, selection.Rect{EndX: 9, EndY: 50}.Degenerate(selection.MinSize))
	assert.True(t, selection.Rect{EndX: 50, EndY: 9}.Degenerate(selection.MinSize))
	assert.False(t, selection.Rect{StartX: 20, StartY: 20, EndX: 10, EndY: 10}.Degenerate(selection.MinSize))
}
