package timeline

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// PixelToTime converts a horizontal offset from the anchor (usually the
// playhead) to track time. Fractional milliseconds are truncated.
func PixelToTime(pixelX float64, anchor int64, pixelsPerMs float64) int64 {
	return anchor + int64(pixelX/pixelsPerMs)
}

// TimeToPixel converts track time to a horizontal offset from the anchor.
func TimeToPixel(t int64, anchor int64, pixelsPerMs float64) float64 {
	return float64(t-anchor) * pixelsPerMs
}

// Viewport is the on-screen timeline. The playhead sits at the horizontal
// centre and the view is re-anchored to it every frame.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
	Zoom          float64
	Playhead      int64
}

func NewViewport(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Zoom: 1}
}

// PixelsPerMs shows one second across the whole width at zoom 1.
func (v Viewport) PixelsPerMs() float64 {
	return v.Width / 1000.0 * v.Zoom
}

func (v Viewport) centre() float64 {
	return v.Left + v.Width/2
}

func (v Viewport) TimeAt(x float64) int64 {
	return PixelToTime(x-v.centre(), v.Playhead, v.PixelsPerMs())
}

func (v Viewport) XAt(t int64) float64 {
	return v.centre() + TimeToPixel(t, v.Playhead, v.PixelsPerMs())
}

// Span returns the times at the left and right edges.
func (v Viewport) Span() (int64, int64) {
	return v.TimeAt(v.Left), v.TimeAt(v.Left + v.Width)
}

// LaneAt returns the lane under y, clamped to the lanes that exist.
func (v Viewport) LaneAt(y float64, laneCount int) int {
	if laneCount <= 0 {
		return 0
	}
	lane := int(math.Floor((y - v.Top) / (v.Height / float64(laneCount))))
	if lane < 0 {
		return 0
	}
	if lane > laneCount-1 {
		return laneCount - 1
	}
	return lane
}

// ToleranceMs converts a distance in pixels to a duration at the current zoom.
func (v Viewport) ToleranceMs(pixels float64) float64 {
	return pixels / v.PixelsPerMs()
}

func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
