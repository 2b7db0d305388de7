package hand

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/transform"
)

func testIntrinsics() *transform.PinholeCameraIntrinsics {
	return &transform.PinholeCameraIntrinsics{
		Width:  128,
		Height: 128,
		Fx:     588.03,
		Fy:     587.07,
		Ppx:    64.,
		Ppy:    64.,
	}
}

// handFrame returns a 128x128 frame that is empty except for a 20x20 block
// of pixels at the given depth, centered on (64, 64).
func handFrame(z depthmap.Depth) *depthmap.DepthMap {
	dm := depthmap.NewEmptyDepthMap(128, 128)
	for y := 54; y < 74; y++ {
		for x := 54; x < 74; x++ {
			dm.Set(x, y, z)
		}
	}
	return dm
}

func TestNewCropperClampsRange(t *testing.T) {
	dm := depthmap.NewEmptyDepthMap(8, 8)
	dm.Set(0, 0, 5)    // below the sensor floor
	dm.Set(1, 0, 10)   // right at the floor
	dm.Set(2, 0, 700)  // in range
	dm.Set(3, 0, 1500) // right at the ceiling
	dm.Set(4, 0, 2100) // past the ceiling

	c, err := NewCropper(dm, testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	test.That(t, dm.GetDepth(0, 0), test.ShouldEqual, depthmap.Depth(0))
	test.That(t, dm.GetDepth(1, 0), test.ShouldEqual, depthmap.Depth(10))
	test.That(t, dm.GetDepth(2, 0), test.ShouldEqual, depthmap.Depth(700))
	test.That(t, dm.GetDepth(3, 0), test.ShouldEqual, depthmap.Depth(1500))
	test.That(t, dm.GetDepth(4, 0), test.ShouldEqual, depthmap.Depth(0))
	// holes are left alone
	test.That(t, dm.GetDepth(7, 7), test.ShouldEqual, depthmap.Depth(0))

	minDepth, maxDepth := c.OperatingRange()
	test.That(t, minDepth, test.ShouldEqual, MinValidDepth)
	test.That(t, maxDepth, test.ShouldEqual, MaxValidDepth)
}

func TestNewCropperTightensRangeToFrame(t *testing.T) {
	dm := depthmap.NewEmptyDepthMap(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dm.Set(x, y, depthmap.Depth(400+x))
		}
	}

	c, err := NewCropper(dm, testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	// no holes and nothing out of range, so the frame's own extremes win
	minDepth, maxDepth := c.OperatingRange()
	test.That(t, minDepth, test.ShouldEqual, depthmap.Depth(400))
	test.That(t, maxDepth, test.ShouldEqual, depthmap.Depth(403))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			test.That(t, dm.GetDepth(x, y), test.ShouldEqual, depthmap.Depth(400+x))
		}
	}
}

func TestNewCropperFromCopy(t *testing.T) {
	dm := depthmap.NewEmptyDepthMap(4, 4)
	dm.Set(0, 0, 2100)

	c, err := NewCropperFromCopy(dm, testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	// the copy is cleaned, the original is not
	test.That(t, c.Image().GetDepth(0, 0), test.ShouldEqual, depthmap.Depth(0))
	test.That(t, dm.GetDepth(0, 0), test.ShouldEqual, depthmap.Depth(2100))
}

func TestNewCropperRejectsBadInputs(t *testing.T) {
	_, err := NewCropper(nil, testIntrinsics())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty depth map")

	_, err = NewCropper(depthmap.NewEmptyDepthMap(4, 4), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, transform.ErrNoIntrinsics), test.ShouldBeTrue)
}

func TestBoundsFromCenterOfMass(t *testing.T) {
	c, err := NewCropper(handFrame(500), testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	bounds, err := c.BoundsFromCenterOfMass(r3.Vector{X: 64, Y: 64, Z: 500}, r3.Vector{X: 250, Y: 250, Z: 250})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bounds.XStart, test.ShouldEqual, -84)
	test.That(t, bounds.XEnd, test.ShouldEqual, 211)
	test.That(t, bounds.YStart, test.ShouldEqual, -83)
	test.That(t, bounds.YEnd, test.ShouldEqual, 210)
	test.That(t, bounds.ZStart, test.ShouldEqual, 375.)
	test.That(t, bounds.ZEnd, test.ShouldEqual, 625.)
	test.That(t, bounds.Dx(), test.ShouldEqual, 295)
	test.That(t, bounds.Dy(), test.ShouldEqual, 293)
}

func TestBoundsCoverTheBoxAtAnyDistance(t *testing.T) {
	c, err := NewCropper(handFrame(500), testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	size := r3.Vector{X: 250, Y: 250, Z: 250}
	for _, z := range []float64{350, 500, 750, 1000, 1400} {
		com := r3.Vector{X: 64, Y: 64, Z: z}
		bounds, err := c.BoundsFromCenterOfMass(com, size)
		test.That(t, err, test.ShouldBeNil)

		// the window always covers the same physical width, whatever the
		// distance, so projecting it back to mm recovers the box size
		pxToMM := z / c.Intrinsics().Fx
		test.That(t, float64(bounds.Dx())*pxToMM, test.ShouldAlmostEqual, size.X, 2*pxToMM)
		pyToMM := z / c.Intrinsics().Fy
		test.That(t, float64(bounds.Dy())*pyToMM, test.ShouldAlmostEqual, size.Y, 2*pyToMM)

		// and stays centered on the center of mass
		test.That(t, float64(bounds.XStart+bounds.XEnd)/2., test.ShouldAlmostEqual, com.X, 1.)
		test.That(t, float64(bounds.YStart+bounds.YEnd)/2., test.ShouldAlmostEqual, com.Y, 1.)
	}
}

func TestBoundsRejectInvalidCenterDepth(t *testing.T) {
	c, err := NewCropper(handFrame(500), testIntrinsics())
	test.That(t, err, test.ShouldBeNil)

	size := r3.Vector{X: 250, Y: 250, Z: 250}
	for _, z := range []float64{0, -10} {
		_, err := c.BoundsFromCenterOfMass(r3.Vector{X: 64, Y: 64, Z: z}, size)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrInvalidCenterDepth), test.ShouldBeTrue)
	}
}

func TestNYUJointConstants(t *testing.T) {
	test.That(t, NYUJointCount, test.ShouldEqual, 36)
	test.That(t, len(NYUEvaluationJoints), test.ShouldEqual, 14)
	for _, j := range NYUEvaluationJoints {
		test.That(t, j, test.ShouldBeLessThan, NYUJointCount)
	}
}
