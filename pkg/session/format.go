package session

import (
	"bytes"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"

	"github.com/matzehuels/tilescramble/pkg/errors"
)

// Format is an export image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// DefaultFormat keeps every pixel, including the transparent remainder.
const DefaultFormat = PNG

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 92

// Formats lists the supported export formats.
var Formats = []Format{PNG, JPEG, GIF}

// ParseFormat parses a format name or file extension ("jpg", ".png").
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want png, jpeg or gif)", s)
}

// Ext returns the file extension without a dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return string(f)
}

// encode writes img in format f to w. The image is encoded to memory first so
// that a failed encode writes nothing.
func encode(w io.Writer, img image.Image, f Format, jpegQuality int) (int, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case GIF:
		err = imaging.Encode(&buf, img, imaging.GIF,
			imaging.GIFNumColors(256),
			imaging.GIFQuantizer(&quantize.MedianCutQuantizer{}),
		)
	default:
		return 0, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return n, errors.Wrap(errors.ErrCodeInternal, err, "write %s", f)
	}
	return n, nil
}
