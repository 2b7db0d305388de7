// Package main is a command that cuts a fixed physical box around a hand out
// of a depth image and writes the resampled crop, ready for a pose network.
package main

import (
	"context"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/hand"
	"go.viam.com/handdepth/logging"
	"go.viam.com/handdepth/transform"
)

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

const refineIterations = 3

var logger = logging.NewDebugLogger("handcrop")

// Arguments for the command.
type Arguments struct {
	InFile       string  `flag:"0,required,usage=depth image to crop"`
	OutFile      string  `flag:"1,required,usage=where the cropped depth image goes"`
	Com          comFlag `flag:"com,usage=hand center instead of detecting one"`
	Intrinsics   string  `flag:"intrinsics,usage=camera intrinsics JSON file"`
	CropSize     int     `flag:"size,default=250,usage=physical crop box side in mm"`
	OutSize      int     `flag:"out-size,default=128,usage=crop resolution in px"`
	FillHoles    bool    `flag:"fill-holes,usage=fill small missing-data regions first"`
	MinArea      int     `flag:"min-area,default=300,usage=smallest region detection may call a hand in px"`
	Preview      string  `flag:"preview,usage=also write the frame with the crop box drawn"`
	PreviewWidth int     `flag:"preview-width,default=640,usage=preview width in px"`
}

// comFlag holds a hand center given on the command line as "x,y,z".
type comFlag struct {
	vec r3.Vector
	set bool
}

func (cf *comFlag) String() string {
	if !cf.set {
		return ""
	}
	return cf.vec.String()
}

func (cf *comFlag) Set(val string) error {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	if len(parts) != 3 {
		return errors.Errorf("expected x,y,z but got %q", val)
	}
	coords := make([]float64, 3)
	for i, part := range parts {
		c, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return errors.Wrapf(err, "bad coordinate %q", part)
		}
		coords[i] = c
	}
	cf.vec = r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}
	cf.set = true
	return nil
}

func (cf *comFlag) Get() interface{} {
	return cf.vec
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	params := &transform.NYUKinectParameters
	if argsParsed.Intrinsics != "" {
		var err error
		if params, err = transform.NewPinholeCameraIntrinsicsFromJSONFile(argsParsed.Intrinsics); err != nil {
			return err
		}
	}

	dm, err := depthmap.NewDepthMapFromFile(argsParsed.InFile)
	if err != nil {
		return err
	}
	if argsParsed.FillHoles {
		if dm, err = depthmap.FillDepthHoles(dm, depthmap.DefaultMaxHoleArea); err != nil {
			return err
		}
	}

	cropper, err := hand.NewCropper(dm, params)
	if err != nil {
		return err
	}

	side := float64(argsParsed.CropSize)
	size := r3.Vector{X: side, Y: side, Z: side}
	com := argsParsed.Com.vec
	if !argsParsed.Com.set {
		box, detected, err := hand.DetectNearestRegion(cropper.Image(), argsParsed.MinArea)
		if err != nil {
			return err
		}
		logger.Debugw("detected hand", "box", box.String(), "com", detected.String())
		if com, err = cropper.RefineCenterOfMass(detected, size, refineIterations); err != nil {
			return err
		}
	}
	logger.Infow("cropping", "com", com.String(), "mm", argsParsed.CropSize)

	crop, err := cropper.CropArea3D(com, size, image.Point{argsParsed.OutSize, argsParsed.OutSize})
	if err != nil {
		return err
	}

	err = crop.WriteToFile(argsParsed.OutFile)
	if argsParsed.Preview == "" {
		return err
	}
	return multierr.Combine(err, writePreview(cropper, com, size, argsParsed))
}

// writePreview renders the depth frame with the crop box on it, scaled to a
// width comfortable to look at.
func writePreview(c *hand.Cropper, com, size r3.Vector, args Arguments) error {
	bounds, err := c.BoundsFromCenterOfMass(com, size)
	if err != nil {
		return err
	}
	img := hand.DrawCropBox(c.Image(), bounds)
	if args.PreviewWidth > 0 && args.PreviewWidth != img.Bounds().Dx() {
		img = imaging.Resize(img, args.PreviewWidth, 0, imaging.NearestNeighbor)
	}
	return depthmap.WriteImageToFile(args.Preview, img)
}
