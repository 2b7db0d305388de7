package depthmap

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// ErrNotPackedRGB is returned when an image does not carry depth packed into
// its color channels.
var ErrNotPackedRGB = errors.New("image does not hold packed RGB depth data")

func packedDepth(g, b uint8) Depth {
	return Depth(uint16(g)<<8 | uint16(b))
}

// DecodePackedRGB extracts a depth map from a color frame whose green channel
// holds the top 8 bits and blue channel the bottom 8 bits of a 16 bit
// millimeter depth value. The red channel is ignored. Inputs without three
// color channels fail with ErrNotPackedRGB.
func DecodePackedRGB(img image.Image) (*DepthMap, error) {
	bounds := img.Bounds()
	dm := NewEmptyDepthMap(bounds.Dx(), bounds.Dy())
	switch orig := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := orig.NRGBAAt(x, y)
				dm.Set(x-bounds.Min.X, y-bounds.Min.Y, packedDepth(c.G, c.B))
			}
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := orig.RGBAAt(x, y)
				dm.Set(x-bounds.Min.X, y-bounds.Min.Y, packedDepth(c.G, c.B))
			}
		}
	case *image.NRGBA64:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := orig.NRGBA64At(x, y)
				dm.Set(x-bounds.Min.X, y-bounds.Min.Y, packedDepth(uint8(c.G>>8), uint8(c.B>>8)))
			}
		}
	case *image.RGBA64:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := orig.RGBA64At(x, y)
				dm.Set(x-bounds.Min.X, y-bounds.Min.Y, packedDepth(uint8(c.G>>8), uint8(c.B>>8)))
			}
		}
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := orig.YCbCrAt(x, y)
				_, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				dm.Set(x-bounds.Min.X, y-bounds.Min.Y, packedDepth(g, b))
			}
		}
	default:
		return nil, errors.Wrapf(ErrNotPackedRGB, "cannot decode %T", img)
	}
	return dm, nil
}

// ConvertImageToDepthMap takes an image and figures out if it's already a
// DepthMap or if it can be converted into one.
func ConvertImageToDepthMap(img image.Image) (*DepthMap, error) {
	switch ii := img.(type) {
	case *DepthMap:
		return ii, nil
	case *image.Gray16:
		return gray16ToDepthMap(ii), nil
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64, *image.YCbCr:
		return DecodePackedRGB(img)
	default:
		return nil, errors.Errorf("don't know how to make DepthMap from %T", img)
	}
}

func gray16ToDepthMap(img *image.Gray16) *DepthMap {
	bounds := img.Bounds()
	dm := NewEmptyDepthMap(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := img.PixOffset(x, y)
			z := uint16(img.Pix[i+0])<<8 | uint16(img.Pix[i+1])
			dm.Set(x-bounds.Min.X, y-bounds.Min.Y, Depth(z))
		}
	}
	return dm
}
