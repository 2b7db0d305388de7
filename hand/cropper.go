// Package hand prepares millimeter depth frames of a human hand for pose
// estimation networks. It locates the hand, crops a fixed physical volume
// around it, and normalizes the result to the window a network consumes.
package hand

import (
	"github.com/pkg/errors"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/transform"
)

const (
	// MinValidDepth is the closest depth in mm the supported sensors report reliably.
	MinValidDepth = depthmap.Depth(10)
	// MaxValidDepth is the farthest depth in mm a hand is expected at.
	MaxValidDepth = depthmap.Depth(1500)
)

// Cropper extracts fixed physical-size windows around a hand from a single
// depth frame.
type Cropper struct {
	img    *depthmap.DepthMap
	params *transform.PinholeCameraIntrinsics

	minDepth depthmap.Depth
	maxDepth depthmap.Depth
}

// NewCropper readies the given depth frame for cropping. The frame is
// clamped in place: pixels outside the sensor operating range drop to zero,
// so the caller sees the cleaned frame through its own reference. Use
// NewCropperFromCopy to leave the caller's frame alone.
func NewCropper(dm *depthmap.DepthMap, params *transform.PinholeCameraIntrinsics) (*Cropper, error) {
	if dm == nil || !dm.HasData() {
		return nil, errors.New("cannot crop an empty depth map")
	}
	if err := params.CheckValid(); err != nil {
		return nil, err
	}
	c := &Cropper{img: dm, params: params}
	c.clampOperatingRange()
	return c, nil
}

// NewCropperFromCopy is NewCropper on a copy of the given frame.
func NewCropperFromCopy(dm *depthmap.DepthMap, params *transform.PinholeCameraIntrinsics) (*Cropper, error) {
	if dm == nil {
		return nil, errors.New("cannot crop an empty depth map")
	}
	return NewCropper(dm.Clone(), params)
}

// clampOperatingRange zeroes every pixel outside [minDepth, maxDepth],
// where the range is the sensor limits tightened to the values actually
// present in the frame. Empty pixels stay empty.
func (c *Cropper) clampOperatingRange() {
	min, max := depthmap.MaxDepth, depthmap.Depth(0)
	for y := 0; y < c.img.Height(); y++ {
		for x := 0; x < c.img.Width(); x++ {
			z := c.img.GetDepth(x, y)
			if z < min {
				min = z
			}
			if z > max {
				max = z
			}
		}
	}
	c.maxDepth = MaxValidDepth
	if max < c.maxDepth {
		c.maxDepth = max
	}
	c.minDepth = MinValidDepth
	if min > c.minDepth {
		c.minDepth = min
	}
	for y := 0; y < c.img.Height(); y++ {
		for x := 0; x < c.img.Width(); x++ {
			z := c.img.GetDepth(x, y)
			if z != 0 && (z < c.minDepth || z > c.maxDepth) {
				c.img.Set(x, y, 0)
			}
		}
	}
}

// Image returns the frame the cropper operates on.
func (c *Cropper) Image() *depthmap.DepthMap {
	return c.img
}

// Intrinsics returns the camera parameters the cropper projects with.
func (c *Cropper) Intrinsics() *transform.PinholeCameraIntrinsics {
	return c.params
}

// OperatingRange returns the depth range the frame was clamped to.
func (c *Cropper) OperatingRange() (depthmap.Depth, depthmap.Depth) {
	return c.minDepth, c.maxDepth
}
