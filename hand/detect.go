package hand

import (
	"image"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/utils"
)

// maxDepthStep is how much two neighboring pixels of one surface may differ,
// in mm, before they split into separate regions.
const maxDepthStep = 30

type depthRegion struct {
	area             int
	sumX, sumY, sumZ float64
	nearest          depthmap.Depth
	box              image.Rectangle
}

func (r *depthRegion) grow(pt image.Point, z depthmap.Depth) {
	r.area++
	r.sumX += float64(pt.X)
	r.sumY += float64(pt.Y)
	r.sumZ += float64(z)
	if z < r.nearest {
		r.nearest = z
	}
	if pt.X < r.box.Min.X {
		r.box.Min.X = pt.X
	}
	if pt.X+1 > r.box.Max.X {
		r.box.Max.X = pt.X + 1
	}
	if pt.Y < r.box.Min.Y {
		r.box.Min.Y = pt.Y
	}
	if pt.Y+1 > r.box.Max.Y {
		r.box.Max.Y = pt.Y + 1
	}
}

func (r *depthRegion) centerOfMass() r3.Vector {
	return r3.Vector{
		X: r.sumX / float64(r.area),
		Y: r.sumY / float64(r.area),
		Z: r.sumZ / float64(r.area),
	}
}

// DetectNearestRegion finds the connected surface nearest the camera with at
// least minArea pixels, returning its bounding box and center of mass. In
// frames of a person facing the camera the nearest sizable surface is the
// outstretched hand.
func DetectNearestRegion(dm *depthmap.DepthMap, minArea int) (image.Rectangle, r3.Vector, error) {
	if dm == nil || !dm.HasData() {
		return image.Rectangle{}, r3.Vector{}, errors.New("cannot detect regions on an empty depth map")
	}
	if minArea <= 0 {
		minArea = 1
	}

	seen := make([]bool, dm.Width()*dm.Height())
	queue := []image.Point{}
	var best *depthRegion
	for i := 0; i < dm.Width(); i++ {
		for j := 0; j < dm.Height(); j++ {
			pt := image.Point{i, j}
			indx := pt.Y*dm.Width() + pt.X
			if seen[indx] {
				continue
			}
			seen[indx] = true
			if dm.Get(pt) == 0 {
				continue
			}
			region := &depthRegion{nearest: depthmap.MaxDepth, box: image.Rectangle{Min: pt, Max: pt}}
			queue = append(queue, pt)
			for len(queue) != 0 {
				newPt := queue[0]
				queue = queue[1:]
				region.grow(newPt, dm.Get(newPt))
				queue = append(queue, surfaceNeighbors(newPt, dm, seen)...)
			}
			if region.area >= minArea && (best == nil || region.nearest < best.nearest) {
				best = region
			}
		}
	}
	if best == nil {
		return image.Rectangle{}, r3.Vector{}, errors.Errorf("no connected depth region of at least %d pixels", minArea)
	}
	return best.box, best.centerOfMass(), nil
}

// surfaceNeighbors returns the unvisited 4-neighbors that continue the
// surface pt sits on, marking them visited as they are claimed.
func surfaceNeighbors(pt image.Point, dm *depthmap.DepthMap, seen []bool) []image.Point {
	z := int(dm.Get(pt))
	neighbors := make([]image.Point, 0, 4)
	fourPoints := []image.Point{{pt.X, pt.Y - 1}, {pt.X, pt.Y + 1}, {pt.X - 1, pt.Y}, {pt.X + 1, pt.Y}}
	for _, p := range fourPoints {
		if !dm.Contains(p.X, p.Y) {
			continue
		}
		indx := p.Y*dm.Width() + p.X
		if seen[indx] {
			continue
		}
		pz := int(dm.Get(p))
		if pz != 0 && utils.AbsInt(pz-z) <= maxDepthStep {
			neighbors = append(neighbors, p)
			seen[indx] = true
		}
	}
	return neighbors
}
