package render

// PixelSink receives a rendered frame. Clear is called once per frame
// before any block is drawn, then DrawPixelBlock once per film sample in
// sample order.
type PixelSink interface {
	Clear(width, height int)
	DrawPixelBlock(x, y, w, h int, c Color)
}
