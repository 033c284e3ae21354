// Package catalog holds the domain rules of the product catalog: input
// validation and coercion, the image storage policy, product URL derivation
// and result shaping. It depends only on the ProductStore interface, never
// on a concrete backend.
package catalog

import (
	"context"
	"log"
	"strings"

	"backend/internal/apperror"
	"backend/internal/models"
	"backend/internal/store"
)

const defaultPageSize = 20

type Service struct {
	store  store.ProductStore
	images ImagePolicy

	// fixedPageSize, when positive, overrides whatever limit the client
	// requested on list operations.
	fixedPageSize int64
}

func NewService(productStore store.ProductStore, images ImagePolicy, fixedPageSize int64) *Service {
	return &Service{store: productStore, images: images, fixedPageSize: fixedPageSize}
}

// Page is one shaped list result with its pagination metadata.
type Page struct {
	Data    []models.Product `json:"data"`
	Page    int64            `json:"page"`
	Limit   int64            `json:"limit"`
	Total   int64            `json:"total"`
	HasMore bool             `json:"hasMore"`
}

func (s *Service) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, apperror.NewValidation("name required")
	}
	mainCategory := strings.TrimSpace(in.MainCategory)
	if mainCategory == "" {
		return models.Product{}, apperror.NewValidation("mainCategory required")
	}
	subCategory := strings.TrimSpace(in.SubCategory)
	if subCategory == "" {
		return models.Product{}, apperror.NewValidation("subCategory required")
	}

	if err := s.images.Validate(in.Image); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:           name,
		Price:          CoercePrice(in.Price),
		MainCategory:   mainCategory,
		SubCategory:    subCategory,
		NestedCategory: strings.TrimSpace(in.NestedCategory),
		Composition:    strings.TrimSpace(in.Composition),
		GSM:            strings.TrimSpace(in.GSM),
		Width:          strings.TrimSpace(in.Width),
		Count:          strings.TrimSpace(in.Count),
		Construction:   strings.TrimSpace(in.Construction),
		Weave:          strings.TrimSpace(in.Weave),
		Finish:         strings.TrimSpace(in.Finish),
		InStock:        true,
		ProductURL:     BuildProductURL(mainCategory, subCategory, in.NestedCategory),
	}
	if in.InStockSet {
		p.InStock = in.InStock
	}

	if in.Specifications.Set {
		p.Specifications = in.Specifications.Resolve()
	} else {
		p.Specifications = deriveSpecifications(p)
	}

	stored, err := s.images.Store(in.Image)
	if err != nil {
		return models.Product{}, err
	}
	p.ImageData = stored.Data
	p.ImageType = stored.ContentType
	p.ImagePath = stored.Path

	created, err := s.store.Insert(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	return s.images.Materialize(created), nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	return s.images.Materialize(p), nil
}

func (s *Service) List(ctx context.Context, page, limit int64) (Page, error) {
	if page < 1 {
		page = 1
	}
	if s.fixedPageSize > 0 {
		limit = s.fixedPageSize
	} else if limit < 1 {
		limit = defaultPageSize
	}

	products, total, err := s.store.List(ctx, page, limit)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Data:    s.materializeAll(products),
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: page*limit < total,
	}, nil
}

func (s *Service) FindByCategory(ctx context.Context, mainCategory string) ([]models.Product, error) {
	products, err := s.store.FindByCategory(ctx, strings.TrimSpace(mainCategory))
	if err != nil {
		return nil, err
	}
	return s.materializeAll(products), nil
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.store.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return s.materializeAll(products), nil
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	patch := store.Patch{}

	if in.NameSet {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return models.Product{}, apperror.NewValidation("name required")
		}
		patch.Name = &name
	}
	if in.PriceSet {
		price := CoercePrice(in.Price)
		patch.Price = &price
	}

	mainCategory := existing.MainCategory
	subCategory := existing.SubCategory
	nestedCategory := existing.NestedCategory
	categoryChanged := false

	if in.MainCategorySet {
		mainCategory = strings.TrimSpace(in.MainCategory)
		if mainCategory == "" {
			return models.Product{}, apperror.NewValidation("mainCategory required")
		}
		patch.MainCategory = &mainCategory
		categoryChanged = true
	}
	if in.SubCategorySet {
		subCategory = strings.TrimSpace(in.SubCategory)
		if subCategory == "" {
			return models.Product{}, apperror.NewValidation("subCategory required")
		}
		patch.SubCategory = &subCategory
		categoryChanged = true
	}
	if in.NestedCategorySet {
		nestedCategory = strings.TrimSpace(in.NestedCategory)
		patch.NestedCategory = &nestedCategory
		categoryChanged = true
	}
	if categoryChanged {
		productURL := BuildProductURL(mainCategory, subCategory, nestedCategory)
		patch.ProductURL = &productURL
	}

	setTrimmed := func(dst **string, value string, set bool) {
		if set {
			trimmed := strings.TrimSpace(value)
			*dst = &trimmed
		}
	}
	setTrimmed(&patch.Composition, in.Composition, in.CompositionSet)
	setTrimmed(&patch.GSM, in.GSM, in.GSMSet)
	setTrimmed(&patch.Width, in.Width, in.WidthSet)
	setTrimmed(&patch.Count, in.Count, in.CountSet)
	setTrimmed(&patch.Construction, in.Construction, in.ConstructionSet)
	setTrimmed(&patch.Weave, in.Weave, in.WeaveSet)
	setTrimmed(&patch.Finish, in.Finish, in.FinishSet)

	if in.Specifications.Set {
		specs := in.Specifications.Resolve()
		patch.Specifications = &specs
	}
	if in.InStockSet {
		inStock := in.InStock
		patch.InStock = &inStock
	}

	// A new upload replaces the previous image entirely; omitting the
	// field keeps the stored image untouched.
	if in.Image != nil {
		if err := s.images.Validate(in.Image); err != nil {
			return models.Product{}, err
		}
		stored, err := s.images.Store(in.Image)
		if err != nil {
			return models.Product{}, err
		}
		patch.ImageData = &stored.Data
		patch.ImageType = &stored.ContentType
		patch.ImagePath = &stored.Path
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return models.Product{}, err
	}

	if in.Image != nil && existing.ImagePath != "" && existing.ImagePath != updated.ImagePath {
		if err := s.images.Remove(existing.ImagePath); err != nil {
			log.Printf("UpdateProduct: old image delete failed: %v", err)
		}
	}

	return s.images.Materialize(updated), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	if deleted.ImagePath != "" {
		if err := s.images.Remove(deleted.ImagePath); err != nil {
			log.Printf("DeleteProduct: image delete failed: %v", err)
		}
	}
	return nil
}

// GetImage exposes raw image bytes and their content type for direct
// retrieval, independent of the materialized display form.
func (s *Service) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return s.images.Read(p)
}

func (s *Service) materializeAll(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		out = append(out, s.images.Materialize(p))
	}
	return out
}

// deriveSpecifications builds the structured echo of the descriptive
// attributes when the client did not send one. A client-supplied mapping
// always wins and is never cross-validated against the top-level fields.
func deriveSpecifications(p models.Product) models.SpecMap {
	specs := models.SpecMap{}
	put := func(key, value string) {
		if value != "" {
			specs[key] = value
		}
	}
	put("category", p.MainCategory)
	put("subCategory", p.SubCategory)
	put("composition", p.Composition)
	put("gsm", p.GSM)
	put("width", p.Width)
	put("count", p.Count)
	put("construction", p.Construction)
	put("weave", p.Weave)
	put("finish", p.Finish)
	return specs
}
