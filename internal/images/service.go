// Package images validates uploaded pictures and prepares them for inline display.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	DefaultCaption = "Uploaded Image"

	msgUnsupportedType = "Only JPG and PNG images are supported."
	msgInvalidImage    = "The uploaded file is not a valid image."
	msgEmptyUpload     = "Please choose an image to upload."

	// formField is the multipart part holding the upload.
	formField = "image"
	// formOverhead leaves room for multipart headers around the file part.
	formOverhead = 1 << 20
)

var allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

var allowedMIMETypes = map[string]bool{"image/jpeg": true, "image/png": true}

// Preview is an uploaded image ready for display. It is never stored.
type Preview struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
	Caption  string `json:"caption"`
	DataURI  string `json:"dataUri"`
}

type Service struct {
	maxBytes int64
	log      *logger.Logger
}

func NewService(maxBytes int64, log *logger.Logger) *Service {
	return &Service{maxBytes: maxBytes, log: log.WithComponent("images")}
}

// PreviewRequest reads the "image" part of a multipart request. The body is
// capped before the form is parsed, so an oversized upload is rejected
// without being buffered or spooled to disk.
func (s *Service) PreviewRequest(w http.ResponseWriter, r *http.Request) (Preview, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+formOverhead)

	f, fh, err := r.FormFile(formField)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return Preview{}, s.tooLarge()
	}
	if err != nil {
		return Preview{}, apperr.Validation(msgEmptyUpload).WithOp("images.PreviewRequest")
	}
	_ = f.Close()

	return s.PreviewUpload(fh)
}

// PreviewUpload reads a multipart file, refusing to buffer more than the cap.
func (s *Service) PreviewUpload(fh *multipart.FileHeader) (Preview, error) {
	if fh == nil {
		return Preview{}, apperr.Validation(msgEmptyUpload)
	}
	if fh.Size > s.maxBytes {
		return Preview{}, s.tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return Preview{}, apperr.Wrap(apperr.KindValidation, msgInvalidImage, err).WithOp("images.PreviewUpload")
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return Preview{}, apperr.Wrap(apperr.KindValidation, msgInvalidImage, err).WithOp("images.PreviewUpload")
	}

	return s.Preview(fh.Filename, data)
}

// Preview checks the file name, size and content, then decodes the image
// header. Any type or decode failure is invalid user input.
func (s *Service) Preview(filename string, data []byte) (Preview, error) {
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return Preview{}, apperr.Validation(msgUnsupportedType).WithOp("images.Preview")
	}
	if len(data) == 0 {
		return Preview{}, apperr.Validation(msgEmptyUpload).WithOp("images.Preview")
	}
	if int64(len(data)) > s.maxBytes {
		return Preview{}, s.tooLarge()
	}

	mtype := mimetype.Detect(data).String()
	if !allowedMIMETypes[mtype] {
		s.log.Debug("rejected upload", "filename", filename, "detected", mtype)
		return Preview{}, apperr.Validation(msgUnsupportedType).WithOp("images.Preview")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Preview{}, apperr.Wrap(apperr.KindValidation, msgInvalidImage, err).WithOp("images.Preview")
	}

	return Preview{
		Filename: filepath.Base(filename),
		MIMEType: mtype,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     len(data),
		Caption:  s.caption(data),
		DataURI:  "data:" + mtype + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *Service) tooLarge() error {
	return apperr.TooLarge(fmt.Sprintf("Images must be at most %d MB.", s.maxBytes>>20)).
		WithOp("images.Preview").
		WithDetails(map[string]int64{"maxBytes": s.maxBytes})
}

// caption adds camera and capture time from EXIF when the file carries them.
func (s *Service) caption(data []byte) string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return DefaultCaption
	}

	var camera string
	if tag, err := x.Get(exif.Model); err == nil {
		camera, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Make); err == nil && camera != "" {
		if maker, err := tag.StringVal(); err == nil {
			camera = joinCamera(maker, camera)
		}
	}

	taken, err := x.DateTime()
	if err != nil {
		taken = time.Time{}
	}

	return buildCaption(camera, taken)
}

func joinCamera(maker, model string) string {
	maker = strings.TrimSpace(maker)
	model = strings.TrimSpace(model)
	if maker == "" || strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)) {
		return model
	}
	return maker + " " + model
}

func buildCaption(camera string, taken time.Time) string {
	parts := []string{DefaultCaption}
	if camera = strings.TrimSpace(camera); camera != "" {
		parts = append(parts, camera)
	}
	if !taken.IsZero() {
		parts = append(parts, taken.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}
