package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/apitizers/backend/internal/apperr"
	"github.com/pageza/apitizers/backend/internal/logger"
	"github.com/pageza/apitizers/backend/internal/metrics"
	"github.com/pageza/apitizers/backend/internal/storage"
)

// RecipeImageNamespace is the object path prefix of recipe images.
const RecipeImageNamespace = "recipes"

// ImageUpload is an image received with a recipe payload.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishedImage describes an uploaded object.
type PublishedImage struct {
	Path  string
	URL   string
	Token string
}

// ImagePublisher uploads images to the object store and hands back their public URL.
type ImagePublisher struct {
	store   storage.ObjectStore
	metrics *metrics.AggregateMetrics
	log     *logger.Logger
	now     func() time.Time
}

func NewImagePublisher(store storage.ObjectStore, m *metrics.AggregateMetrics, log *logger.Logger) *ImagePublisher {
	return &ImagePublisher{
		store:   store,
		metrics: m,
		log:     log.With("service", "ImagePublisher"),
		now:     time.Now,
	}
}

// Publish stores blob under namespace. A nil or empty blob is not uploaded
// and yields a nil image.
func (p *ImagePublisher) Publish(ctx context.Context, blob *ImageUpload, namespace string) (*PublishedImage, error) {
	if blob == nil || len(blob.Data) == 0 {
		return nil, nil
	}

	path := fmt.Sprintf("%s/%d_%s", namespace, p.now().UnixMilli(), objectName(blob.Filename))
	token := uuid.New().String()
	contentType := blob.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForName(blob.Filename)
	}

	url, err := p.store.Put(ctx, storage.Object{
		Path:        path,
		ContentType: contentType,
		Data:        blob.Data,
		Metadata:    map[string]string{storage.DownloadTokenKey: token},
	})
	p.metrics.ObserveImage("publish", err)
	if err != nil {
		p.log.Error("Image upload failed", "path", path, "error", err)
		return nil, apperr.Store("upload image", err)
	}
	p.log.Info("Image uploaded", "path", path, "size", len(blob.Data))
	return &PublishedImage{Path: path, URL: url, Token: token}, nil
}

// Discard deletes a published image. Failures are logged, not returned.
func (p *ImagePublisher) Discard(ctx context.Context, img *PublishedImage) {
	if img == nil {
		return
	}
	err := p.store.Delete(context.WithoutCancel(ctx), img.Path)
	p.metrics.ObserveImage("discard", err)
	if err != nil {
		p.log.Warn("Orphaned image left in object store", "path", img.Path, "error", err)
		return
	}
	p.log.Info("Discarded image of failed write", "path", img.Path)
}

// objectName keeps the base name of an uploaded file, without separators.
func objectName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
