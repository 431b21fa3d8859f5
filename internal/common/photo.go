package common

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/nfnt/resize"
	"golang.org/x/exp/slices"
)

const (
	PhotoFormKey  = "photo"
	ThumbnailSize = 256
)

var AcceptedPhotoMimes = []string{"image/jpeg", "image/png"}

type Photo struct {
	Data []byte
	Mime string
}

// ReadPhoto returns the photo of the request. encoded may be a data URI or a
// plain base64 string; if it is empty, the multipart file under PhotoFormKey
// is used instead.
func ReadPhoto(ctx context.Context, encoded string) (*Photo, error) {
	maxSize := xcontext.Configs(ctx).File.MaxSize

	var data []byte
	if encoded != "" {
		decoded, err := decodeBase64Photo(encoded)
		if err != nil {
			return nil, errorx.New(errorx.InvalidImageFormat, "Photo must be a base64 image")
		}
		data = decoded
	} else {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return nil, errorx.New(errorx.BadRequest, "Photo is required")
		}

		file, _, err := req.FormFile(PhotoFormKey)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Photo is required")
		}
		defer file.Close()

		// Read one byte over the limit to tell oversized files apart.
		data, err = io.ReadAll(io.LimitReader(file, maxSize+1))
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Cannot read photo")
		}
	}

	return NewPhoto(data, maxSize)
}

// NewPhoto validates size and format of raw image bytes.
func NewPhoto(data []byte, maxSize int64) (*Photo, error) {
	if len(data) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Photo is required")
	}

	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, errorx.New(errorx.ImageTooLarge, "Photo must not exceed %d bytes", maxSize)
	}

	mime := http.DetectContentType(data)
	if !slices.Contains(AcceptedPhotoMimes, mime) {
		return nil, errorx.New(errorx.InvalidImageFormat, "We just accept jpeg or png")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, errorx.New(errorx.InvalidImageFormat, "Cannot decode photo")
	}

	return &Photo{Data: data, Mime: mime}, nil
}

func decodeBase64Photo(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		_, payload, found := strings.Cut(s, ",")
		if !found {
			return nil, fmt.Errorf("invalid data uri")
		}
		s = payload
	}

	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func (p *Photo) extension() string {
	if p.Mime == "image/png" {
		return "png"
	}

	return "jpg"
}

// Thumbnail returns a jpeg copy of the photo whose longer side is
// ThumbnailSize pixels.
func (p *Photo) Thumbnail() ([]byte, error) {
	var img image.Image
	var err error
	switch p.Mime {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(p.Data))
	default:
		img, err = jpeg.Decode(bytes.NewReader(p.Data))
	}
	if err != nil {
		return nil, err
	}

	thumb := resize.Thumbnail(ThumbnailSize, ThumbnailSize, img, resize.Lanczos2)
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, nil); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type StoredPhoto struct {
	Photo     *storage.StoredObject
	Thumbnail *storage.StoredObject
}

// StorePhoto uploads the photo and its thumbnail under the configured prefix.
func StorePhoto(
	ctx context.Context, fileStorage storage.Storage, photo *Photo, name string,
) (*StoredPhoto, error) {
	cfg := xcontext.Configs(ctx).Storage

	thumb, err := photo.Thumbnail()
	if err != nil {
		return nil, err
	}

	resps, err := fileStorage.BulkUpload(ctx, []*storage.UploadObject{
		{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix,
			FileName: fmt.Sprintf("%s.%s", name, photo.extension()),
			Mime:     photo.Mime,
			Data:     photo.Data,
		},
		{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix + "/thumbnails",
			FileName: fmt.Sprintf("%s.jpg", name),
			Mime:     "image/jpeg",
			Data:     thumb,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resps) != 2 {
		return nil, fmt.Errorf("expected 2 uploaded files, got %d", len(resps))
	}

	return &StoredPhoto{Photo: resps[0], Thumbnail: resps[1]}, nil
}

func (s *StoredPhoto) FileNames() []string {
	return []string{s.Photo.Key, s.Thumbnail.Key}
}
