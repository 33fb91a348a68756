package starfield

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the offscreen image the field renders into, sized in device
// pixels.
type Surface struct {
	image *ebiten.Image
	w, h  int
}

// NewSurface allocates a transparent w×h surface. Allocation failures inside
// the graphics driver are reported as ErrSurfaceUnavailable instead of
// panicking.
func NewSurface(w, h int) (s *Surface, err error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceUnavailable, w, h)
	}
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %v", ErrSurfaceUnavailable, r)
		}
	}()
	return &Surface{image: ebiten.NewImage(w, h), w: w, h: h}, nil
}

// Image returns the backing image, or nil after Dispose.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Size returns the surface size in device pixels.
func (s *Surface) Size() (w, h int) {
	return s.w, s.h
}

// Dispose releases the backing image. The Surface must not be used after.
func (s *Surface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}
