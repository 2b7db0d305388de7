// Package depthmap defines a millimeter-unit depth image and the decoders
// that produce one from the packed color frames capture rigs emit.
package depthmap

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"go.viam.com/handdepth/utils"
)

// Depth is the depth in millimeters of a single pixel.
type Depth uint16

// MaxDepth is the largest depth a pixel can hold.
const MaxDepth = Depth(math.MaxUint16)

// DepthMap fulfills the image.Image interface and represents the depth values
// of an image in millimeters, stored in row major order.
type DepthMap struct {
	width  int
	height int

	data []Depth
}

// NewEmptyDepthMap returns an unset depth map with the given dimensions.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]Depth, width*height),
	}
}

func (dm *DepthMap) kxy(x, y int) int {
	return (y * dm.width) + x
}

// HasData returns whether the depth map holds any valid depth.
func (dm *DepthMap) HasData() bool {
	for i := range dm.data {
		if dm.data[i] != 0 {
			return true
		}
	}
	return false
}

// Width returns the horizontal width of the depth map.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the vertical height of the depth map.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the rectangle within which every pixel of the map lies.
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

// Contains returns whether the given coordinate is within the map.
func (dm *DepthMap) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < dm.width && y < dm.height
}

// GetDepth returns the depth at the given coordinate.
func (dm *DepthMap) GetDepth(x, y int) Depth {
	return dm.data[dm.kxy(x, y)]
}

// Get returns the depth at the given point.
func (dm *DepthMap) Get(p image.Point) Depth {
	return dm.data[dm.kxy(p.X, p.Y)]
}

// Set sets the depth at the given coordinate.
func (dm *DepthMap) Set(x, y int, val Depth) {
	dm.data[dm.kxy(x, y)] = val
}

// At returns the depth value as a color.Gray16.
func (dm *DepthMap) At(x, y int) color.Color {
	return color.Gray16{Y: uint16(dm.GetDepth(x, y))}
}

// ColorModel returns the color model Gray16 in order to fulfill the
// image.Image interface.
func (dm *DepthMap) ColorModel() color.Model {
	return color.Gray16Model
}

// Clone makes a copy of the depth map.
func (dm *DepthMap) Clone() *DepthMap {
	ddm := NewEmptyDepthMap(dm.width, dm.height)
	copy(ddm.data, dm.data)
	return ddm
}

// SubImage returns a copy of the pixels of the depth map within the given
// rectangle. Parts of the rectangle outside the map are discarded.
func (dm *DepthMap) SubImage(r image.Rectangle) *DepthMap {
	if r.Empty() {
		return &DepthMap{}
	}
	xmin, xmax := utils.ClampInt(r.Min.X, 0, dm.width), utils.ClampInt(r.Max.X, 0, dm.width)
	ymin, ymax := utils.ClampInt(r.Min.Y, 0, dm.height), utils.ClampInt(r.Max.Y, 0, dm.height)
	if xmin == xmax || ymin == ymax {
		return &DepthMap{width: xmax - xmin, height: ymax - ymin, data: []Depth{}}
	}
	width := xmax - xmin
	height := ymax - ymin
	newData := make([]Depth, 0, width*height)
	for y := ymin; y < ymax; y++ {
		begin, end := (y*dm.width)+xmin, (y*dm.width)+xmax
		newData = append(newData, dm.data[begin:end]...)
	}
	return &DepthMap{width: width, height: height, data: newData}
}

// MinMax returns the minimum and maximum depth in the map, ignoring pixels
// that hold no data.
func (dm *DepthMap) MinMax() (Depth, Depth) {
	min, max := MaxDepth, Depth(0)

	for i := range dm.data {
		z := dm.data[i]
		if z == 0 {
			continue
		}
		if z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}

	return min, max
}

// ToGray16Picture converts this depth map into a grayscale image of the
// same dimensions.
func (dm *DepthMap) ToGray16Picture() *image.Gray16 {
	grayScaleImage := image.NewGray16(dm.Bounds())
	for x := 0; x < dm.width; x++ {
		for y := 0; y < dm.height; y++ {
			val := dm.GetDepth(x, y)
			grayColor := color.Gray16{Y: uint16(val)}
			grayScaleImage.Set(x, y, grayColor)
		}
	}
	return grayScaleImage
}

// ToPrettyPicture converts the depth map into a color image where near
// pixels are red and far pixels are blue. Pixels with no data stay black.
// hardMin and hardMax pin the ends of the color scale.
func (dm *DepthMap) ToPrettyPicture(hardMin, hardMax Depth) *image.RGBA {
	min, max := dm.MinMax()

	if min < hardMin {
		min = hardMin
	}
	if max > hardMax {
		max = hardMax
	}

	img := image.NewRGBA(dm.Bounds())

	if max <= min {
		return img
	}
	span := float64(max) - float64(min)

	for x := 0; x < dm.width; x++ {
		for y := 0; y < dm.height; y++ {
			z := dm.GetDepth(x, y)
			if z == 0 {
				continue
			}

			if z < min {
				z = min
			}
			if z > max {
				z = max
			}

			ratio := float64(z-min) / span

			hue := 30 + (200.0 * ratio)
			img.Set(x, y, colorful.Hsv(hue, 1.0, 1.0))
		}
	}

	return img
}
