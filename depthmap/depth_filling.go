package depthmap

import (
	"image"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"

	"go.viam.com/handdepth/utils"
)

// DefaultMaxHoleArea is the largest connected region of missing data, in
// pixels, that FillDepthHoles fills when the caller has no preference.
const DefaultMaxHoleArea = 500

// FillDepthHoles finds regions of connected missing data and fills those no
// bigger than maxHoleArea pixels with estimates from the surrounding pixels,
// using 16-point ray-marching. Holes that straddle the boundary between a
// near and a far object are filled as the near object, which occludes. The
// input map is left untouched.
func FillDepthHoles(dm *DepthMap, maxHoleArea int) (*DepthMap, error) {
	if dm == nil || !dm.HasData() {
		return nil, errors.New("cannot fill holes in an empty depth map")
	}
	filled := dm.Clone()
	for _, hole := range segmentDepthHoles(dm) {
		if len(hole) > maxHoleArea {
			continue
		}
		borderPoints := holeBorderPoints(hole, dm)
		if len(borderPoints) == 0 {
			continue
		}
		if isMultiModal(borderPoints, dm, 3) { // hole most likely on an edge
			val, err := nearestClusterDepth(borderPoints, dm)
			if err != nil {
				return nil, err
			}
			for point := range hole {
				filled.Set(point.X, point.Y, val)
			}
		} else {
			for point := range hole {
				filled.Set(point.X, point.Y, rayMarchDepth(point.X, point.Y, 8, dm))
			}
		}
	}
	return filled, nil
}

// directions for ray-marching.
var sixteenDirections = []image.Point{
	{0, 2},
	{0, -2},
	{-2, 0},
	{2, 0},
	{-2, 2},
	{2, 2},
	{-2, -2},
	{2, -2},
	{-2, 1},
	{-1, 2},
	{1, 2},
	{2, 1},
	{-2, -1},
	{-1, -2},
	{1, -2},
	{2, -1},
}

// segmentDepthHoles collects the connected regions of pixels holding no
// depth data, using 4-connectivity.
func segmentDepthHoles(dm *DepthMap) []map[image.Point]bool {
	seen := make([]bool, dm.Width()*dm.Height())
	queue := []image.Point{}
	holes := []map[image.Point]bool{}
	for x := 0; x < dm.Width(); x++ {
		for y := 0; y < dm.Height(); y++ {
			pt := image.Point{x, y}
			indx := pt.Y*dm.Width() + pt.X
			if seen[indx] {
				continue
			}
			if dm.Get(pt) != 0 {
				seen[indx] = true
				continue
			}
			hole := make(map[image.Point]bool)
			queue = append(queue, pt)
			for len(queue) != 0 {
				newPt := queue[0]
				queue = queue[1:]
				seen[newPt.Y*dm.Width()+newPt.X] = true
				hole[newPt] = true
				queue = append(queue, zeroNeighbors(newPt, dm, seen)...)
			}
			holes = append(holes, hole)
		}
	}
	return holes
}

func zeroNeighbors(pt image.Point, dm *DepthMap, seen []bool) []image.Point {
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
		if dm.Get(p) == 0 {
			neighbors = append(neighbors, p)
		}
		seen[indx] = true
	}
	return neighbors
}

// holeBorderPoints returns the filled-in points on the border of a
// contiguous segment of holes.
func holeBorderPoints(hole map[image.Point]bool, dm *DepthMap) map[image.Point]bool {
	directions := []image.Point{
		{0, 1},  // up
		{0, -1}, // down
		{-1, 0}, // left
		{1, 0},  // right
	}
	borderPoints := make(map[image.Point]bool)
	for hp := range hole {
		for _, dir := range directions {
			point := image.Point{hp.X + dir.X, hp.Y + dir.Y}
			if !dm.Contains(point.X, point.Y) {
				continue
			}
			if dm.GetDepth(point.X, point.Y) != 0 {
				borderPoints[point] = true
			}
		}
	}
	return borderPoints
}

// Quick way of counting the modes in a collection of depths, to distinguish
// whether the border belongs to one object or a mixture of foreground and
// background. Bin widths are 100 mm. threshold sets how many empty bins
// between filled bins are needed to count as separate peaks.
func isMultiModal(points map[image.Point]bool, dm *DepthMap, threshold int) bool {
	depths := depthSlice(points, dm)
	if len(depths) == 0 {
		return false
	}
	min, max := minmax(depths)
	nbins := utils.MaxInt(1, int((max-min)/100.)) // bin widths 100mm
	hist := histogram.Hist(nbins, depths)
	peaks := 0
	zeros := threshold
	for _, bkt := range hist.Buckets {
		if bkt.Count != 0 {
			if zeros >= threshold {
				peaks++
			}
			zeros = 0
		} else {
			zeros++
		}
	}
	return peaks > 1
}

func minmax(slice []float64) (float64, float64) {
	max := slice[0]
	min := slice[0]
	for _, value := range slice {
		if max < value {
			max = value
		}
		if min > value {
			min = value
		}
	}
	return min, max
}

// get a slice of float64 depths from a map of points, skipping empty pixels.
func depthSlice(points map[image.Point]bool, dm *DepthMap) []float64 {
	slice := make([]float64, 0, len(points))
	for point := range points {
		if !dm.Contains(point.X, point.Y) {
			continue
		}
		if dm.Get(point) != 0 {
			slice = append(slice, float64(dm.Get(point)))
		}
	}
	return slice
}

// depthPoint is used with the kmeans clustering functions. Points are
// clustered according to their depth value alone, so Coordinates and
// Distance operate on a single axis.
type depthPoint struct {
	p image.Point
	d Depth
}

func (dp depthPoint) Coordinates() clusters.Coordinates {
	return clusters.Coordinates([]float64{float64(dp.d)})
}

func (dp depthPoint) Distance(c clusters.Coordinates) float64 {
	return math.Abs(float64(dp.d) - c[0])
}

// nearestClusterDepth splits the border depths into two clusters and returns
// the center of the nearer one.
func nearestClusterDepth(borderPoints map[image.Point]bool, dm *DepthMap) (Depth, error) {
	var obs clusters.Observations
	for pt := range borderPoints {
		obs = append(obs, depthPoint{pt, dm.Get(pt)})
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, 2) // cluster into 2 partitions
	if err != nil {
		return 0, err
	}
	nearest := math.MaxFloat64
	for _, c := range cc {
		if c.Center[0] < nearest {
			nearest = c.Center[0]
		}
	}
	return Depth(nearest), nil
}

// rayMarchDepth marches out from a missing pixel in 16 directions until each
// ray hits a pixel with data, repeating iterations times per ray, and returns
// the median of the depths found. Zero when no ray hit anything.
func rayMarchDepth(x, y, iterations int, dm *DepthMap) Depth {
	rayPoints := pointsFromRayMarching(x, y, iterations, sixteenDirections, dm)
	if len(rayPoints) == 0 {
		return 0
	}
	depths := make([]float64, 0, len(rayPoints))
	for pt := range rayPoints {
		depths = append(depths, float64(dm.Get(pt)))
	}
	return Depth(utils.Median(depths...))
}

// collects points used for the imputation of a missing pixel by marching
// out 'iterations' times in each of the directions given.
func pointsFromRayMarching(x, y, iterations int, directions []image.Point, dm *DepthMap) map[image.Point]bool {
	rayMarchingPoints := make(map[image.Point]bool)
	for _, dir := range directions {
		i, j := x, y
		for iter := 0; iter < iterations; iter++ { // continue in the same direction iter times
			depthIter := Depth(0)
			for depthIter == 0 { // increment in the given direction until reaching a filled pixel
				i += dir.X
				j += dir.Y
				if !dm.Contains(i, j) { // skip if out of picture bounds
					break
				}
				depthIter = dm.GetDepth(i, j)
			}
			if depthIter != 0 {
				rayMarchingPoints[image.Point{i, j}] = true
			}
		}
	}
	return rayMarchingPoints
}
