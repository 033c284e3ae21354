// Package store defines the persistence seam for catalog records. The two
// implementations (MongoDB and in-memory) carry no domain validation; the
// catalog service enforces field rules before anything reaches a store.
package store

import (
	"context"

	"backend/internal/models"
)

// ProductStore is the durable CRUD and query contract over Product records.
//
// Every implementation assigns identity and both timestamps on Insert
// (createdAt == updatedAt at creation) and advances updatedAt on every
// Update, even an empty one. Unknown ids surface as *apperror.NotFoundError;
// connectivity faults as *apperror.TransientError.
type ProductStore interface {
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)

	// List returns one offset-based page sorted by createdAt descending,
	// plus the total record count so callers can derive hasMore.
	List(ctx context.Context, page, limit int64) ([]models.Product, int64, error)

	// FindByCategory matches mainCategory exactly.
	FindByCategory(ctx context.Context, mainCategory string) ([]models.Product, error)

	// Search does a case-insensitive substring match ORed across name,
	// mainCategory, subCategory and composition.
	Search(ctx context.Context, query string) ([]models.Product, error)

	Update(ctx context.Context, id string, patch Patch) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
}

// Patch carries a partial update; only non-nil fields are written.
type Patch struct {
	Name           *string
	Price          *float64
	MainCategory   *string
	SubCategory    *string
	NestedCategory *string
	Composition    *string
	GSM            *string
	Width          *string
	Count          *string
	Construction   *string
	Weave          *string
	Finish         *string
	Specifications *models.SpecMap
	ImageData      *[]byte
	ImageType      *string
	ImagePath      *string
	ProductURL     *string
	InStock        *bool
}
