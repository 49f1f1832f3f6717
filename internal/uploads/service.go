// Package uploads stores profile blobs (avatars, logos, CVs) in the object
// store and attaches their URLs to accounts.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobboard-backend/internal/accounts"
	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/util"
)

const (
	// RoutePrefix is where stored blobs are served from.
	RoutePrefix = "/api/blobs/"

	defaultCVName = "resume.pdf"
)

// imageTypes are the image formats accepted for avatars and logos, keyed by
// sniffed type.
var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrTooLarge    = apperr.Validation("File is too large")
	ErrNotImage    = apperr.Validation("Only image files are accepted", apperr.FieldIssue{Field: "imageType", Issue: "must be a PNG, JPEG, GIF or WebP image"})
	ErrUnsupported = apperr.Validation("CV must be a PDF, DOC or DOCX file", apperr.FieldIssue{Field: "cvType", Issue: "unsupported document"})
)

// Accounts attaches stored blobs to profiles and returns the reference they
// replace.
type Accounts interface {
	AttachUserAvatar(ctx context.Context, actor auth.Actor, id string, b accounts.Blob) (string, error)
	AttachUserCV(ctx context.Context, actor auth.Actor, id string, b accounts.Blob) (string, error)
	AttachCompanyLogo(ctx context.Context, actor auth.Actor, id string, b accounts.Blob) (string, error)
}

type attachFunc func(ctx context.Context, actor auth.Actor, id string, b accounts.Blob) (string, error)

type Service struct {
	Store         object.ObjectStore
	Accounts      Accounts
	MaxBytes      int64
	PublicBaseURL string
}

func NewService(store object.ObjectStore, accts Accounts, maxBytes int64, publicBaseURL string) *Service {
	return &Service{
		Store:         store,
		Accounts:      accts,
		MaxBytes:      maxBytes,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Payload is an inline upload: a data URI or bare base64 plus optional
// declared type and file name.
type Payload struct {
	Data string
	Type string
	Name string
}

func (s *Service) UploadAvatar(ctx context.Context, actor auth.Actor, userID string, p Payload) (string, error) {
	if err := accounts.CheckOwner(actor, accounts.RoleUser, userID); err != nil {
		return "", err
	}
	return s.image(ctx, actor, userID, "avatar", p, s.Accounts.AttachUserAvatar)
}

func (s *Service) UploadLogo(ctx context.Context, actor auth.Actor, companyID string, p Payload) (string, error) {
	if err := accounts.CheckOwner(actor, accounts.RoleCompany, companyID); err != nil {
		return "", err
	}
	return s.image(ctx, actor, companyID, "logo", p, s.Accounts.AttachCompanyLogo)
}

// UploadCV accepts PDF, DOC and DOCX documents. PDFs record their page count.
func (s *Service) UploadCV(ctx context.Context, actor auth.Actor, userID string, p Payload) (string, error) {
	if err := accounts.CheckOwner(actor, accounts.RoleUser, userID); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Data) == "" {
		return "", apperr.Validation("CV data is required", apperr.FieldIssue{Field: "cvData", Issue: "required"})
	}
	declared, data, err := s.decode(p, "cvData")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = defaultCVName
	}
	doc, err := extract.Inspect(ctx, data, declared, name)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) || errors.Is(err, extract.ErrUnreadable) {
			telemetry.Warn("upload.cv_rejected", map[string]any{"user_id": userID, "error": err.Error()})
			return "", ErrUnsupported
		}
		return "", err
	}
	blob := accounts.Blob{Type: doc.MimeType, Name: name, Pages: doc.Pages}
	return s.attach(ctx, actor, userID, name, data, blob, s.Accounts.AttachUserCV)
}

// image stores an avatar or logo. The stored type is sniffed from the bytes;
// a declared type only has to be an image type.
func (s *Service) image(ctx context.Context, actor auth.Actor, ownerID, kind string, p Payload, attach attachFunc) (string, error) {
	if strings.TrimSpace(p.Data) == "" {
		return "", apperr.Validation("Image data is required", apperr.FieldIssue{Field: "imageData", Issue: "required"})
	}
	declared, data, err := s.decode(p, "imageData")
	if err != nil {
		return "", err
	}
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return "", ErrNotImage
	}
	mimeType := http.DetectContentType(data)
	ext, ok := imageTypes[mimeType]
	if !ok {
		telemetry.Warn("upload.image_rejected", map[string]any{"owner_id": ownerID, "declared": declared, "sniffed": mimeType})
		return "", ErrNotImage
	}
	return s.attach(ctx, actor, ownerID, kind+ext, data, accounts.Blob{Type: mimeType}, attach)
}

func (s *Service) decode(p Payload, field string) (string, []byte, error) {
	mimeType, data, err := util.DecodeDataURI(p.Data, p.Type)
	if err != nil {
		return "", nil, apperr.Validation("Invalid data URI", apperr.FieldIssue{Field: field, Issue: "must be a base64 data URI"})
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return "", nil, ErrTooLarge
	}
	return mimeType, data, nil
}

// attach stores data, points the profile at it and removes the blob it
// replaced. A failed attach removes the new blob instead.
func (s *Service) attach(ctx context.Context, actor auth.Actor, ownerID, name string, data []byte, blob accounts.Blob, attach attachFunc) (string, error) {
	obj, err := s.Store.Put(ctx, object.Upload{Owner: ownerID, Name: name, ContentType: blob.Type, Body: bytes.NewReader(data)})
	if err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	key := obj.Key
	blob.URL = s.URL(key)

	previous, err := attach(ctx, actor, ownerID, blob)
	if err != nil {
		s.discard(ctx, key)
		return "", err
	}
	if prevKey, ok := s.KeyFromURL(previous); ok && prevKey != key {
		s.discard(ctx, prevKey)
	}

	telemetry.Info("upload.attached", map[string]any{
		"owner_id":   ownerID,
		"key":        key,
		"size_bytes": obj.Size,
		"type":       blob.Type,
	})
	return blob.URL, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("upload.cleanup_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// URL returns the public reference for a storage key.
func (s *Service) URL(key string) string {
	return s.PublicBaseURL + RoutePrefix + key
}

// KeyFromURL reverses URL. References that were not issued by this service,
// such as legacy inline data, report false.
func (s *Service) KeyFromURL(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, s.PublicBaseURL+RoutePrefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
