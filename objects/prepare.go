package objects

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	// decoders for formats converted to PNG on upload
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"chapterdoc/common"
	"chapterdoc/utils/images"
)

var ErrNotImage = errors.New("payload is not a supported image")

// PrepareOptions controls how uploaded pictures are adjusted.
type PrepareOptions struct {
	MaxWidth    int
	Resize      common.ImageResizeMode
	JPEGQuality int
}

// Prepared is ready to upload picture.
type Prepared struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

func (o *PrepareOptions) needsResize(width int) bool {
	return o.Resize != common.ImageResizeModeNone && o.MaxWidth > 0 && width > o.MaxWidth
}

func (o *PrepareOptions) resize(img image.Image) image.Image {
	if !o.needsResize(img.Bounds().Dx()) {
		return img
	}
	h := 0
	if o.Resize == common.ImageResizeModeStretch {
		h = img.Bounds().Dy()
	}
	return imaging.Resize(img, o.MaxWidth, h, imaging.Lanczos)
}

func encodePNG(img image.Image) (*Prepared, error) {
	if images.IsGrayscale(img) {
		img = images.ToGray(img)
	}
	buf := new(bytes.Buffer)
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode png: %w", err)
	}
	return &Prepared{Data: buf.Bytes(), ContentType: "image/png", Ext: ".png", Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

// Prepare checks that payload is a picture every client could display and
// converts it when necessary. SVG is rasterized, WebP, BMP and TIFF are
// converted to PNG, pictures wider than allowed are scaled down. Declared
// content type is only trusted for SVG, which has no signature.
func Prepare(data []byte, declared string, opts PrepareOptions, log *zap.Logger) (*Prepared, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrNotImage)
	}

	if images.IsSVG(data) || (declared == "image/svg+xml" && !filetype.IsImage(data)) {
		img, err := images.RasterizeSVG(data, opts.MaxWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to rasterize svg: %v", ErrNotImage, err)
		}
		log.Debug("SVG rasterized", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
		return encodePNG(img)
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: detected %q, declared %q", ErrNotImage, kind.MIME.Value, declared)
	}
	if declared != "" && declared != kind.MIME.Value {
		log.Debug("Declared content type does not match payload", zap.String("declared", declared), zap.String("detected", kind.MIME.Value))
	}

	switch kind.MIME.Value {
	case "image/jpeg", "image/png":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		if !opts.needsResize(cfg.Width) {
			return &Prepared{Data: data, ContentType: kind.MIME.Value, Ext: "." + kind.Extension, Width: cfg.Width, Height: cfg.Height}, nil
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		img = opts.resize(img)
		log.Debug("Image scaled down", zap.Int("from", cfg.Width), zap.Int("to", img.Bounds().Dx()))
		if kind.MIME.Value == "image/png" {
			return encodePNG(img)
		}
		out, err := images.EncodeJPEG(img, opts.JPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("unable to encode jpeg: %w", err)
		}
		return &Prepared{Data: out, ContentType: "image/jpeg", Ext: ".jpg", Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil

	case "image/gif":
		// animation would be lost on re-encoding, keep as is
		g, err := gif.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		return &Prepared{Data: data, ContentType: "image/gif", Ext: ".gif", Width: g.Width, Height: g.Height}, nil

	case "image/webp", "image/bmp", "image/tiff":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		log.Debug("Image converted to png", zap.String("from", kind.MIME.Value))
		return encodePNG(opts.resize(img))

	default:
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrNotImage, kind.MIME.Value)
	}
}
