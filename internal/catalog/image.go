package catalog

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"backend/internal/apperror"
	"backend/internal/models"
)

// ImageMode selects how product photos are stored. A deployment uses
// exactly one mode; records never mix inline bytes and reference paths.
type ImageMode string

const (
	// ImageInlineRequired stores bytes on the record and rejects creation
	// without an upload.
	ImageInlineRequired ImageMode = "inline-required"
	// ImageInlineOptional stores bytes on the record; reads of records
	// without an image return the placeholder reference.
	ImageInlineOptional ImageMode = "inline-optional"
	// ImageFilesystem writes bytes under UploadDir and keeps only the
	// relative path on the record.
	ImageFilesystem ImageMode = "filesystem"
)

// ImagePolicy holds the configured storage mode and its limits.
type ImagePolicy struct {
	Mode     ImageMode
	MaxBytes int64

	// UploadDir is the local directory filesystem-mode bytes land in;
	// PublicPrefix is the matching relative prefix recorded on products
	// and served as static content.
	UploadDir    string
	PublicPrefix string

	// Placeholder is returned for imageless records in optional mode.
	Placeholder string
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Validate enforces presence, size and content-type rules. It runs before
// any persistence attempt so a rejected upload never partially writes a
// record.
func (p ImagePolicy) Validate(upload *ImageUpload) error {
	if upload == nil {
		if p.Mode == ImageInlineRequired {
			return apperror.NewValidation("image required")
		}
		return nil
	}
	if len(upload.Data) == 0 {
		return apperror.NewValidation("image payload is empty")
	}
	if p.MaxBytes > 0 && int64(len(upload.Data)) > p.MaxBytes {
		return apperror.NewValidation(fmt.Sprintf("image too large (max %d bytes)", p.MaxBytes))
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return apperror.NewValidation("unsupported image type: " + upload.ContentType)
	}
	return nil
}

// storedImage is what a successful Store call puts on the record.
type storedImage struct {
	Data        []byte
	ContentType string
	Path        string
}

// Store persists a validated upload according to the mode. Inline modes
// return the bytes untouched; filesystem mode writes them under UploadDir
// as <unixnano>_<uuid><ext> and returns only the relative path.
func (p ImagePolicy) Store(upload *ImageUpload) (storedImage, error) {
	if upload == nil {
		return storedImage{}, nil
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if p.Mode != ImageFilesystem {
		return storedImage{Data: upload.Data, ContentType: contentType}, nil
	}

	ext := allowedImageTypes[contentType]
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString(), ext)

	if err := os.MkdirAll(p.UploadDir, 0o755); err != nil {
		return storedImage{}, apperror.NewInternal("create upload dir", err)
	}
	if err := os.WriteFile(filepath.Join(p.UploadDir, name), upload.Data, 0o644); err != nil {
		return storedImage{}, apperror.NewInternal("write image file", err)
	}

	return storedImage{Path: path.Join(p.PublicPrefix, name)}, nil
}

// Materialize fills the display form of the image: inline bytes become a
// self-contained data URI so the consumer needs no follow-up fetch;
// filesystem records expose the reference path only.
func (p ImagePolicy) Materialize(product models.Product) models.Product {
	switch {
	case product.ImagePath != "":
		product.Image = product.ImagePath
	case len(product.ImageData) > 0:
		product.Image = "data:" + product.ImageType + ";base64," +
			base64.StdEncoding.EncodeToString(product.ImageData)
	case p.Mode == ImageInlineOptional && p.Placeholder != "":
		product.Image = p.Placeholder
	}
	return product
}

// Remove deletes a previously stored filesystem image. The path must stay
// under PublicPrefix; anything else is refused.
func (p ImagePolicy) Remove(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" || p.Mode != ImageFilesystem {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if p.PublicPrefix != "" && !strings.HasPrefix(cleanRel, p.PublicPrefix+"/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	target := filepath.Join(p.UploadDir, filepath.Base(filepath.FromSlash(cleanRel)))
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// Read returns the raw bytes and content type for a record, resolving
// filesystem references from disk.
func (p ImagePolicy) Read(product models.Product) ([]byte, string, error) {
	if len(product.ImageData) > 0 {
		return product.ImageData, product.ImageType, nil
	}
	if product.ImagePath == "" {
		return nil, "", apperror.NewNotFound("product has no image")
	}

	target := filepath.Join(p.UploadDir, filepath.Base(filepath.FromSlash(product.ImagePath)))
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, "", apperror.NewNotFound("product image missing from storage")
	}
	if err != nil {
		return nil, "", apperror.NewInternal("read image file", err)
	}
	return data, contentTypeForExt(filepath.Ext(target)), nil
}

func contentTypeForExt(ext string) string {
	for contentType, knownExt := range allowedImageTypes {
		if knownExt == strings.ToLower(ext) && contentType != "image/jpg" {
			return contentType
		}
	}
	return "application/octet-stream"
}
