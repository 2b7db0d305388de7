package hand

import (
	"image"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrInvalidCenterDepth is returned when a center of mass carries no usable
// depth to project a crop box around.
var ErrInvalidCenterDepth = errors.New("center of mass has no valid depth")

// CropBounds is the pixel and depth extent of a crop box around a hand.
// XEnd, YEnd, and ZEnd are exclusive. The pixel window may extend past the
// frame; cropping pads the parts outside with empty pixels.
type CropBounds struct {
	XStart, XEnd int
	YStart, YEnd int
	ZStart, ZEnd float64
}

// Dx returns the width of the crop box in pixels.
func (cb CropBounds) Dx() int {
	return cb.XEnd - cb.XStart
}

// Dy returns the height of the crop box in pixels.
func (cb CropBounds) Dy() int {
	return cb.YEnd - cb.YStart
}

// Rectangle returns the pixel window of the crop box.
func (cb CropBounds) Rectangle() image.Rectangle {
	return image.Rect(cb.XStart, cb.YStart, cb.XEnd, cb.YEnd)
}

// BoundsFromCenterOfMass computes the pixel window covered by a physical
// box of the given size in mm centered on com. com holds a pixel position
// in X and Y and a depth in mm in Z; the box corners are pushed out in
// world space and projected back with a zero principal point, so the
// window lands in array coordinates.
func (c *Cropper) BoundsFromCenterOfMass(com, size r3.Vector) (CropBounds, error) {
	if com.Z <= 0 {
		return CropBounds{}, errors.Wrapf(ErrInvalidCenterDepth, "cannot project a crop box at z=%.2f", com.Z)
	}
	fx, fy := c.params.Fx, c.params.Fy
	return CropBounds{
		XStart: int(math.Floor((com.X*com.Z/fx - size.X/2.) / com.Z * fx)),
		XEnd:   int(math.Floor((com.X*com.Z/fx + size.X/2.) / com.Z * fx)),
		YStart: int(math.Floor((com.Y*com.Z/fy - size.Y/2.) / com.Z * fy)),
		YEnd:   int(math.Floor((com.Y*com.Z/fy + size.Y/2.) / com.Z * fy)),
		ZStart: com.Z - size.Z/2.,
		ZEnd:   com.Z + size.Z/2.,
	}, nil
}
