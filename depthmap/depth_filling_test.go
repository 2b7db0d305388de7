package depthmap

import (
	"testing"

	"go.viam.com/test"
)

func makeFlatMap(width, height int, d Depth) *DepthMap {
	dm := NewEmptyDepthMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dm.Set(x, y, d)
		}
	}
	return dm
}

func TestFillFlatHole(t *testing.T) {
	dm := makeFlatMap(20, 20, 600)
	dm.Set(10, 10, 0)
	dm.Set(11, 10, 0)
	dm.Set(10, 11, 0)
	dm.Set(11, 11, 0)

	filled, err := FillDepthHoles(dm, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, filled.GetDepth(10, 10), test.ShouldEqual, Depth(600))
	test.That(t, filled.GetDepth(11, 11), test.ShouldEqual, Depth(600))

	// the input map is untouched
	test.That(t, dm.GetDepth(10, 10), test.ShouldEqual, Depth(0))
}

func TestFillSkipsBigHoles(t *testing.T) {
	dm := makeFlatMap(20, 20, 600)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			dm.Set(x, y, 0)
		}
	}

	filled, err := FillDepthHoles(dm, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, filled.GetDepth(10, 10), test.ShouldEqual, Depth(0))
}

func TestFillEdgeHole(t *testing.T) {
	dm := makeFlatMap(30, 20, 1200)
	for y := 0; y < 20; y++ {
		for x := 0; x < 14; x++ {
			dm.Set(x, y, 300)
		}
	}
	// a seam of missing data along the boundary between the objects
	for y := 4; y < 16; y++ {
		dm.Set(14, y, 0)
		dm.Set(15, y, 0)
	}

	filled, err := FillDepthHoles(dm, 100)
	test.That(t, err, test.ShouldBeNil)
	for y := 4; y < 16; y++ {
		// the fill belongs to the near object, not a blend with the far one
		test.That(t, filled.GetDepth(14, y), test.ShouldBeGreaterThan, Depth(0))
		test.That(t, filled.GetDepth(14, y), test.ShouldBeLessThan, Depth(700))
		test.That(t, filled.GetDepth(15, y), test.ShouldBeLessThan, Depth(700))
	}
}

func TestSegmentDepthHoles(t *testing.T) {
	dm := makeFlatMap(10, 10, 500)
	dm.Set(0, 0, 0)
	dm.Set(5, 5, 0)
	dm.Set(5, 6, 0)

	holes := segmentDepthHoles(dm)
	test.That(t, len(holes), test.ShouldEqual, 2)
	test.That(t, len(holes[0]), test.ShouldEqual, 1)
	test.That(t, len(holes[1]), test.ShouldEqual, 2)
}

func TestHoleBorderPoints(t *testing.T) {
	dm := makeFlatMap(5, 5, 400)
	dm.Set(2, 2, 0)

	holes := segmentDepthHoles(dm)
	test.That(t, len(holes), test.ShouldEqual, 1)
	border := holeBorderPoints(holes[0], dm)
	test.That(t, len(border), test.ShouldEqual, 4)
}

func TestFillHoleAtImageEdge(t *testing.T) {
	dm := makeFlatMap(10, 10, 800)
	dm.Set(0, 5, 0)
	dm.Set(0, 6, 0)

	filled, err := FillDepthHoles(dm, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, filled.GetDepth(0, 5), test.ShouldEqual, Depth(800))
	test.That(t, filled.GetDepth(0, 6), test.ShouldEqual, Depth(800))
}
