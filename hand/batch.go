package hand

import (
	"context"
	"image"
	"runtime"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"

	"go.viam.com/handdepth/depthmap"
	"go.viam.com/handdepth/logging"
	"go.viam.com/handdepth/transform"
)

// FrameRequest is one depth frame for ProcessFrames, with an optional known
// center of mass. Frames without one go through detection and refinement.
type FrameRequest struct {
	Name         string
	Image        *depthmap.DepthMap
	CenterOfMass *r3.Vector
}

// FrameResult is the prepared form of one frame.
type FrameResult struct {
	Name         string
	CenterOfMass r3.Vector
	Crop         *depthmap.DepthMap
	Input        *tensor.Dense
}

// BatchOptions tune ProcessFrames. The zero value asks for the defaults.
type BatchOptions struct {
	CropSize         r3.Vector   // physical box in mm, DefaultCropSize when zero
	OutputSize       image.Point // crop resolution, DefaultOutputSize when zero
	FillHoles        bool        // fill small missing-data regions first
	MaxHoleArea      int         // largest hole to fill in px, DefaultMaxHoleArea when zero
	MinHandArea      int         // smallest region detection may call a hand, in px
	RefineIterations int         // center of mass refinement rounds for detected hands
	Parallelism      int         // concurrent frames, GOMAXPROCS when zero
}

const (
	defaultMinHandArea      = 300
	defaultRefineIterations = 3
)

// ProcessFrames prepares every frame concurrently. A frame that fails does
// not stop the others: its error comes back joined with the rest, alongside
// the results that succeeded. Frame buffers may be modified in place.
func ProcessFrames(
	ctx context.Context,
	params *transform.PinholeCameraIntrinsics,
	frames []FrameRequest,
	opts BatchOptions,
	logger logging.Logger,
) ([]FrameResult, error) {
	if err := params.CheckValid(); err != nil {
		return nil, err
	}
	if opts.CropSize == (r3.Vector{}) {
		opts.CropSize = DefaultCropSize
	}
	if opts.OutputSize == (image.Point{}) {
		opts.OutputSize = DefaultOutputSize
	}
	if opts.MaxHoleArea <= 0 {
		opts.MaxHoleArea = depthmap.DefaultMaxHoleArea
	}
	if opts.MinHandArea <= 0 {
		opts.MinHandArea = defaultMinHandArea
	}
	if opts.RefineIterations <= 0 {
		opts.RefineIterations = defaultRefineIterations
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	results := make([]*FrameResult, len(frames))
	frameErrs := make([]error, len(frames))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Parallelism)
	for i, frame := range frames {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := processFrame(frame, params, opts, logger)
			if err != nil {
				logger.Warnw("frame failed", "frame", frame.Name, "error", err)
				frameErrs[i] = errors.Wrapf(err, "frame %q", frame.Name)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := make([]FrameResult, 0, len(frames))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out, multierr.Combine(frameErrs...)
}

func processFrame(
	frame FrameRequest,
	params *transform.PinholeCameraIntrinsics,
	opts BatchOptions,
	logger logging.Logger,
) (*FrameResult, error) {
	dm := frame.Image
	if opts.FillHoles {
		var err error
		if dm, err = depthmap.FillDepthHoles(dm, opts.MaxHoleArea); err != nil {
			return nil, err
		}
	}
	cropper, err := NewCropper(dm, params)
	if err != nil {
		return nil, err
	}

	var com r3.Vector
	if frame.CenterOfMass != nil {
		com = *frame.CenterOfMass
	} else {
		_, detected, err := DetectNearestRegion(cropper.Image(), opts.MinHandArea)
		if err != nil {
			return nil, err
		}
		com, err = cropper.RefineCenterOfMass(detected, opts.CropSize, opts.RefineIterations)
		if err != nil {
			return nil, err
		}
	}

	crop, err := cropper.CropArea3D(com, opts.CropSize, opts.OutputSize)
	if err != nil {
		return nil, err
	}
	input, err := NormalizeCrop(crop, com, opts.CropSize)
	if err != nil {
		return nil, err
	}
	logger.Debugw("prepared frame", "frame", frame.Name, "com", com.String())
	return &FrameResult{Name: frame.Name, CenterOfMass: com, Crop: crop, Input: input}, nil
}
