package depthmap

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ReadImageFromFile extracts an image from a file on disk. Decoders for png,
// jpeg, ppm, and qoi are registered.
func ReadImageFromFile(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// NewDepthMapFromFile reads a depth map from the given file. Both 16 bit
// grayscale images and packed RGB depth frames are accepted.
func NewDepthMapFromFile(fn string) (*DepthMap, error) {
	img, err := ReadImageFromFile(fn)
	if err != nil {
		return nil, err
	}
	return ConvertImageToDepthMap(img)
}

// WriteImageToFile writes the image to a file at the given path. The encoding
// is picked from the file extension.
func WriteImageToFile(path string, img image.Image) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	switch filepath.Ext(path) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, nil)
	case ".ppm":
		return ppm.Encode(f, img)
	case ".qoi":
		return qoi.Encode(f, img)
	default:
		return errors.Errorf("do not know how to encode %q", path)
	}
}

// WriteToFile saves the depth map as a 16 bit grayscale PNG at the given
// path, from which NewDepthMapFromFile restores it losslessly.
func (dm *DepthMap) WriteToFile(path string) error {
	return WriteImageToFile(path, dm.ToGray16Picture())
}
