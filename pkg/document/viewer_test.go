package document_test

import (
	"testing"

	"github.com/germanamz/pdfask/pkg/document"
	"github.com/stretchr/testify/assert"
)

func TestViewer_Defaults(t *testing.T) {
	v := document.NewViewer(5)

	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 5, v.PageCount())
	assert.InDelta(t, 1.5, v.Scale(), 1e-9)
	assert.Equal(t, 150, v.ZoomPercent())
}

func TestViewer_Navigation(t *testing.T) {
	v := document.NewViewer(3)

	assert.False(t, v.Prev())
	assert.Equal(t, 1, v.Page())

	assert.True(t, v.Next())
	assert.True(t, v.Next())
	assert.False(t, v.Next())
	assert.Equal(t, 3, v.Page())

	assert.True(t, v.SetPage(-4))
	assert.Equal(t, 1, v.Page())
	assert.True(t, v.SetPage(99))
	assert.Equal(t, 3, v.Page())
}

func TestViewer_ZeroPages(t *testing.T) {
	v := document.NewViewer(0)

	assert.False(t, v.Next())
	assert.Equal(t, 1, v.Page())
}

func TestViewer_Zoom(t *testing.T) {
	v := document.NewViewer(1)

	v.ZoomIn()
	assert.InDelta(t, 1.8, v.Scale(), 1e-9)

	for range 10 {
		v.ZoomIn()
	}
	assert.InDelta(t, document.MaxScale, v.Scale(), 1e-9)

	for range 20 {
		v.ZoomOut()
	}
	assert.InDelta(t, document.MinScale, v.Scale(), 1e-9)

	v.ResetZoom()
	assert.InDelta(t, document.DefaultScale, v.Scale(), 1e-9)
}
