package hand

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/utils"
)

var font *truetype.Font

// init sets up the font the overlays use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

var cropBoxColor = color.NRGBA{R: 255, G: 45, B: 45, A: 255}

// DrawCropBox renders the frame as a color depth picture with the crop
// window and its depth range drawn on top, for eyeballing what a crop
// will take before committing to it.
func DrawCropBox(dm *depthmap.DepthMap, bounds CropBounds) image.Image {
	dc := gg.NewContextForImage(dm.ToPrettyPicture(0, depthmap.MaxDepth))
	drawRectangleEmpty(dc, bounds.Rectangle(), cropBoxColor, 2.)
	label := fmt.Sprintf("z %.0f..%.0f mm", bounds.ZStart, bounds.ZEnd)
	drawString(dc, label, image.Point{bounds.XStart, utils.MaxInt(bounds.YStart-8, 12)}, cropBoxColor, 14.)
	return dc.Image()
}

// drawString writes a string to the given context at a particular point.
func drawString(dc *gg.Context, text string, p image.Point, c color.Color, size float64) {
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}

// drawRectangleEmpty draws the outline of the given rectangle into the context.
func drawRectangleEmpty(dc *gg.Context, r image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Min.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Min.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Max.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Max.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()
}
