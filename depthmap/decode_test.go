package depthmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func makePackedFrame(width, height int, depthAt func(x, y int) uint16) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := depthAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: 87, G: uint8(d >> 8), B: uint8(d & 0xff), A: 255})
		}
	}
	return img
}

func TestDecodePackedNRGBA(t *testing.T) {
	depthAt := func(x, y int) uint16 { return uint16(y*517 + x*3) }
	img := makePackedFrame(9, 7, depthAt)

	dm, err := DecodePackedRGB(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 9)
	test.That(t, dm.Height(), test.ShouldEqual, 7)
	for y := 0; y < dm.Height(); y++ {
		for x := 0; x < dm.Width(); x++ {
			test.That(t, dm.GetDepth(x, y), test.ShouldEqual, Depth(depthAt(x, y)))
		}
	}
}

func TestDecodePackedRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 12, G: 0x03, B: 0x20, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 0xff, B: 0xff, A: 255})

	dm, err := DecodePackedRGB(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.GetDepth(0, 0), test.ShouldEqual, Depth(0x0320))
	test.That(t, dm.GetDepth(1, 0), test.ShouldEqual, Depth(0xffff))
}

func TestDecodePackedNRGBA64(t *testing.T) {
	// 16 bit color images keep the packed bytes in their high bytes
	img := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	img.SetNRGBA64(0, 0, color.NRGBA64{R: 0, G: 0x0400, B: 0x9600, A: 0xffff})

	dm, err := DecodePackedRGB(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.GetDepth(0, 0), test.ShouldEqual, Depth(0x0496))
}

func TestDecodeIgnoresRed(t *testing.T) {
	img1 := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img1.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 2, B: 88, A: 255})
	img2 := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img2.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 2, B: 88, A: 255})

	dm1, err := DecodePackedRGB(img1)
	test.That(t, err, test.ShouldBeNil)
	dm2, err := DecodePackedRGB(img2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm1.GetDepth(0, 0), test.ShouldEqual, dm2.GetDepth(0, 0))
}

func TestDecodeRejectsGray(t *testing.T) {
	_, err := DecodePackedRGB(image.NewGray(image.Rect(0, 0, 4, 4)))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrNotPackedRGB), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "image.Gray")
}

func TestConvertImageToDepthMap(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		dm := NewEmptyDepthMap(2, 2)
		got, err := ConvertImageToDepthMap(dm)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, dm)
	})

	t.Run("gray16", func(t *testing.T) {
		img := image.NewGray16(image.Rect(0, 0, 2, 2))
		img.SetGray16(0, 1, color.Gray16{Y: 828})
		got, err := ConvertImageToDepthMap(img)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got.GetDepth(0, 1), test.ShouldEqual, Depth(828))
		test.That(t, got.GetDepth(1, 1), test.ShouldEqual, Depth(0))
	})

	t.Run("packed color", func(t *testing.T) {
		img := makePackedFrame(3, 3, func(x, y int) uint16 { return 700 })
		got, err := ConvertImageToDepthMap(img)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got.GetDepth(2, 2), test.ShouldEqual, Depth(700))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := ConvertImageToDepthMap(image.NewAlpha(image.Rect(0, 0, 2, 2)))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "don't know how to make DepthMap")
	})
}
