package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUploadsDisabled  = errors.New("uploads are not configured")
	ErrUnsupportedImage = errors.New("only png, jpeg, gif and webp images are accepted")
	ErrImageTooLarge    = errors.New("image is too large")
)

// ObjectUploader stores a blob and returns its public URL.
// helpers.GCSUploader implements it.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService handles images embedded in blog content.
type MediaService struct {
	Uploader ObjectUploader
	MaxBytes int64
	Logger   *logrus.Logger
}

func NewMediaService(u ObjectUploader, maxBytes int64, logger *logrus.Logger) *MediaService {
	return &MediaService{Uploader: u, MaxBytes: maxBytes, Logger: logger}
}

// UploadImage sniffs the content type from the data itself, ignoring what
// the client claimed, and stores it under blog-images/<owner>/.
func (s *MediaService) UploadImage(ctx context.Context, ownerID string, size int64, r io.Reader) (string, error) {
	if s.Uploader == nil {
		return "", ErrUploadsDisabled
	}
	if s.MaxBytes > 0 && size > s.MaxBytes {
		return "", ErrImageTooLarge
	}
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read image: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageExt[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	objectPath := path.Join("blog-images", ownerID, uuid.NewString()+ext)
	var body io.Reader = br
	if s.MaxBytes > 0 {
		body = io.LimitReader(br, s.MaxBytes)
	}
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": ownerID, "object": objectPath}).Error("image upload failed")
		}
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}
