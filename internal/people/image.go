package people

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

const (
	maxUploadSize     = 5 << 20
	maxImageDimension = 1024
	jpegQuality       = 85
)

var errUnsupportedImage = errors.New("unsupported image type")

// İzin verilen içerik tipleri ve kayıt uzantıları
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func sniffImage(data []byte) (contentType, ext string) {
	detected := mimetype.Detect(data)
	for ct, e := range imageTypes {
		if detected.Is(ct) {
			return ct, e
		}
	}
	return "", ""
}

// prepareImage sniffs the payload and shrinks jpeg/png photos to fit
// maxImageDimension. Webp is stored as uploaded.
func prepareImage(data []byte) (out []byte, contentType, ext string, err error) {
	contentType, ext = sniffImage(data)
	if contentType == "" {
		return nil, "", "", errUnsupportedImage
	}
	if contentType == "image/webp" {
		return data, contentType, ext, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", err
	}
	b := img.Bounds()
	if b.Dx() <= maxImageDimension && b.Dy() <= maxImageDimension {
		return data, contentType, ext, nil
	}

	resized := imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	format := imaging.JPEG
	if contentType == "image/png" {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), contentType, ext, nil
}
