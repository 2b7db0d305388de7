package hand

import (
	"image"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/image/draw"

	"go.viam.com/handdepth/depthmap"
)

// Defaults for CropArea3D when the caller passes zero values: a cube with
// the reach of a hand, delivered at the resolution the pose networks take.
var (
	DefaultCropSize   = r3.Vector{X: 250., Y: 250., Z: 250.}
	DefaultOutputSize = image.Point{X: 128, Y: 128}
)

// CropDepthMap cuts the pixel window of bounds out of dm. Parts of the
// window outside the frame come back as empty pixels, so the output always
// has the window's full extent. With thresholdZ, pixels nearer than the
// front of the box are pulled onto it and pixels past the back are dropped;
// empty pixels stay empty.
func CropDepthMap(dm *depthmap.DepthMap, bounds CropBounds, thresholdZ bool) (*depthmap.DepthMap, error) {
	if dm == nil || !dm.HasData() {
		return nil, errors.New("cannot crop an empty depth map")
	}
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Errorf("crop window has no area: %v", bounds.Rectangle())
	}

	out := depthmap.NewEmptyDepthMap(bounds.Dx(), bounds.Dy())
	window := bounds.Rectangle().Intersect(dm.Bounds())
	for y := window.Min.Y; y < window.Max.Y; y++ {
		for x := window.Min.X; x < window.Max.X; x++ {
			out.Set(x-bounds.XStart, y-bounds.YStart, dm.GetDepth(x, y))
		}
	}
	if !thresholdZ {
		return out, nil
	}

	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			z := out.GetDepth(x, y)
			if z == 0 {
				continue
			}
			switch {
			case float64(z) < bounds.ZStart:
				out.Set(x, y, depthmap.Depth(bounds.ZStart))
			case float64(z) > bounds.ZEnd:
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// CropArea3D extracts the hand within a physical box of size mm centered
// on com and resamples the result to outSize pixels. Zero values pick
// DefaultCropSize and DefaultOutputSize. The box's depth window is applied
// as in CropDepthMap.
func (c *Cropper) CropArea3D(com, size r3.Vector, outSize image.Point) (*depthmap.DepthMap, error) {
	if size == (r3.Vector{}) {
		size = DefaultCropSize
	}
	if outSize == (image.Point{}) {
		outSize = DefaultOutputSize
	}
	var err error
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		err = multierr.Append(err, errors.Errorf("crop size must be positive in every dimension, got %v", size))
	}
	if outSize.X <= 0 || outSize.Y <= 0 {
		err = multierr.Append(err, errors.Errorf("output size must be positive in both dimensions, got %v", outSize))
	}
	if com.Z <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidCenterDepth, "center of mass %v", com))
	}
	if err != nil {
		return nil, err
	}

	bounds, err := c.BoundsFromCenterOfMass(com, size)
	if err != nil {
		return nil, err
	}
	cropped, err := CropDepthMap(c.img, bounds, true)
	if err != nil {
		return nil, err
	}
	return resizeNearest(cropped, outSize), nil
}

// resizeNearest resamples dm to the given size with nearest neighbor so no
// new depth values are invented.
func resizeNearest(dm *depthmap.DepthMap, size image.Point) *depthmap.DepthMap {
	dst := image.NewGray16(image.Rect(0, 0, size.X, size.Y))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), dm, dm.Bounds(), draw.Over, nil)
	out, err := depthmap.ConvertImageToDepthMap(dst)
	if err != nil {
		panic(err) // impossible, Gray16 always converts
	}
	return out
}
