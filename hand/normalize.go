package hand

import (
	"github.com/golang/geo/r3"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"go.viam.com/handdepth/depthmap"
)

// NormalizeCrop converts a cropped hand into the float32 tensor a pose
// network consumes. Depths map linearly to [-1, 1] across the box of depth
// extent size.Z centered at com.Z, and empty pixels sit at the far plane
// (+1). The tensor shape is (1, height, width).
func NormalizeCrop(crop *depthmap.DepthMap, com, size r3.Vector) (*tensor.Dense, error) {
	if crop == nil || !crop.HasData() {
		return nil, errors.New("cannot normalize an empty depth map")
	}
	if size.Z <= 0 {
		return nil, errors.Errorf("box depth extent must be positive, got %.2f", size.Z)
	}
	if com.Z <= 0 {
		return nil, errors.Wrapf(ErrInvalidCenterDepth, "center of mass %v", com)
	}

	halfZ := size.Z / 2.
	data := make([]float32, 0, crop.Width()*crop.Height())
	for y := 0; y < crop.Height(); y++ {
		for x := 0; x < crop.Width(); x++ {
			z := crop.GetDepth(x, y)
			if z == 0 {
				data = append(data, 1.)
				continue
			}
			v := (float64(z) - com.Z) / halfZ
			if v < -1. {
				v = -1.
			}
			if v > 1. {
				v = 1.
			}
			data = append(data, float32(v))
		}
	}
	return tensor.New(tensor.WithShape(1, crop.Height(), crop.Width()), tensor.WithBacking(data)), nil
}

// ResizeForNetwork resamples a depth map to the exact input resolution a
// network expects, using nearest neighbor so no new depth values appear.
func ResizeForNetwork(dm *depthmap.DepthMap, width, height uint) (*depthmap.DepthMap, error) {
	if dm == nil || !dm.HasData() {
		return nil, errors.New("cannot resize an empty depth map")
	}
	if width == 0 || height == 0 {
		return nil, errors.Errorf("output size must be positive in both dimensions, got (%d, %d)", width, height)
	}
	resized := resize.Resize(width, height, dm.ToGray16Picture(), resize.NearestNeighbor)
	return depthmap.ConvertImageToDepthMap(resized)
}
