package desktop

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/germanamz/pdfask/pkg/reader"
	xdraw "golang.org/x/image/draw"
)

var (
	overlayStroke = color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	overlayFill   = color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x1A}
)

// pageView shows the rendered page and turns pointer input into pipeline
// drags. Widget coordinates are mapped to page raster pixels, so the overlay
// and the extracted region always agree.
type pageView struct {
	widget.BaseWidget

	pipeline *reader.Pipeline
	raster   *fynecanvas.Raster

	mu   sync.Mutex
	page image.Image
}

var (
	_ fyne.Draggable    = (*pageView)(nil)
	_ desktop.Mouseable = (*pageView)(nil)
	_ desktop.Hoverable = (*pageView)(nil)
)

func newPageView(p *reader.Pipeline) *pageView {
	v := &pageView{pipeline: p}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(fyne.NewSize(400, 300))
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *pageView) MinSize() fyne.Size {
	return v.raster.MinSize()
}

// SetImage shows img at one widget unit per raster pixel.
func (v *pageView) SetImage(img image.Image) {
	v.mu.Lock()
	v.page = img
	v.mu.Unlock()

	if img != nil {
		b := img.Bounds()
		v.raster.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	}
	v.Refresh()
}

// toPage converts a widget position to raster pixel coordinates.
func (v *pageView) toPage(pos fyne.Position) (float64, float64) {
	v.mu.Lock()
	img := v.page
	v.mu.Unlock()

	size := v.Size()
	if img == nil || size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}

	b := img.Bounds()
	return float64(pos.X) * float64(b.Dx()) / float64(size.Width),
		float64(pos.Y) * float64(b.Dy()) / float64(size.Height)
}

func (v *pageView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pipeline.PointerDown(v.toPage(ev.Position))
}

// MouseUp ends a click that never became a drag. After a drag the tracker is
// already idle and this is a no-op.
func (v *pageView) MouseUp(*desktop.MouseEvent) {
	v.pipeline.PointerUp()
	v.raster.Refresh()
}

func (v *pageView) Dragged(ev *fyne.DragEvent) {
	if v.pipeline.PointerMove(v.toPage(ev.Position)) {
		v.raster.Refresh()
	}
}

func (v *pageView) DragEnd() {
	v.pipeline.PointerUp()
	v.raster.Refresh()
}

func (v *pageView) MouseIn(*desktop.MouseEvent) {}

func (v *pageView) MouseMoved(*desktop.MouseEvent) {}

func (v *pageView) MouseOut() {
	if v.pipeline.PointerLeave() {
		v.raster.Refresh()
	}
}

// draw scales the page to the raster size and paints the drag overlay.
func (v *pageView) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	v.mu.Lock()
	img := v.page
	v.mu.Unlock()

	if img == nil {
		return out
	}

	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	r, ok := v.pipeline.Overlay()
	if !ok {
		return out
	}

	b := img.Bounds()
	sx, sy := float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy())
	drawOverlay(out, image.Rect(
		int(float64(r.Min.X)*sx), int(float64(r.Min.Y)*sy),
		int(float64(r.Max.X)*sx), int(float64(r.Max.Y)*sy),
	))

	return out
}

// drawOverlay shades r and outlines it with a dashed border.
func drawOverlay(out *image.RGBA, r image.Rectangle) {
	r = r.Intersect(out.Bounds())
	if r.Empty() {
		return
	}

	xdraw.Draw(out, r, image.NewUniform(overlayFill), image.Point{}, xdraw.Over)

	dashed := func(x, y int) {
		if (x+y)%8 < 4 {
			out.Set(x, y, overlayStroke)
		}
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dashed(x, r.Min.Y)
		dashed(x, r.Max.Y-1)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dashed(r.Min.X, y)
		dashed(r.Max.X-1, y)
	}
}
