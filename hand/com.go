package hand

import (
	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/handdepth/depthmap"
)

// EstimateCenterOfMass returns the mean pixel position and mean depth of
// every pixel in dm that holds data.
func EstimateCenterOfMass(dm *depthmap.DepthMap) (r3.Vector, error) {
	if dm == nil || !dm.HasData() {
		return r3.Vector{}, errors.New("no depth data to estimate a center of mass from")
	}
	num := dm.Width() * dm.Height()
	xs := make([]float64, 0, num)
	ys := make([]float64, 0, num)
	zs := make([]float64, 0, num)
	for y := 0; y < dm.Height(); y++ {
		for x := 0; x < dm.Width(); x++ {
			z := dm.GetDepth(x, y)
			if z == 0 {
				continue
			}
			xs = append(xs, float64(x))
			ys = append(ys, float64(y))
			zs = append(zs, float64(z))
		}
	}
	mx, err := stats.Mean(xs)
	if err != nil {
		return r3.Vector{}, err
	}
	my, err := stats.Mean(ys)
	if err != nil {
		return r3.Vector{}, err
	}
	mz, err := stats.Mean(zs)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: mx, Y: my, Z: mz}, nil
}

// RefineCenterOfMass improves a center of mass estimate by repeatedly
// cropping a box of size mm around the current estimate and re-estimating
// inside it. The estimate settles onto the hand after a few rounds even
// when the first guess includes arm or background pixels. Non-positive
// iterations leave com untouched.
func (c *Cropper) RefineCenterOfMass(com, size r3.Vector, iterations int) (r3.Vector, error) {
	for i := 0; i < iterations; i++ {
		bounds, err := c.BoundsFromCenterOfMass(com, size)
		if err != nil {
			return r3.Vector{}, err
		}
		cropped, err := CropDepthMap(c.img, bounds, true)
		if err != nil {
			return r3.Vector{}, err
		}
		refined, err := EstimateCenterOfMass(cropped)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "refinement iteration %d left the box empty", i)
		}
		// the estimate is in crop coordinates; shift it back into the frame
		com = r3.Vector{
			X: refined.X + float64(bounds.XStart),
			Y: refined.Y + float64(bounds.YStart),
			Z: refined.Z,
		}
	}
	return com, nil
}
