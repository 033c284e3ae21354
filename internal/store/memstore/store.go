// Package memstore implements store.ProductStore as a process-local ordered
// collection. It exists for deployments that run without a database and for
// tests; semantics mirror the MongoDB store, including last-writer-wins
// updates and per-record atomicity.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/apperror"
	"backend/internal/models"
	"backend/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	order   []string // insertion order, oldest first
	records map[string]models.Product
}

func New() *Store {
	return &Store{records: make(map[string]models.Product)}
}

func (s *Store) Insert(_ context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Specifications == nil {
		p.Specifications = models.SpecMap{}
	}

	id := p.ID.Hex()
	s.records[id] = clone(p)
	s.order = append(s.order, id)
	return p, nil
}

func (s *Store) GetByID(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[id]
	if !ok {
		return models.Product{}, apperror.NewNotFound("product not found")
	}
	return clone(p), nil
}

func (s *Store) List(_ context.Context, page, limit int64) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}

	// newest first
	all := make([]models.Product, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		all = append(all, clone(s.records[s.order[i]]))
	}

	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *Store) FindByCategory(_ context.Context, mainCategory string) ([]models.Product, error) {
	return s.collect(func(p models.Product) bool {
		return p.MainCategory == mainCategory
	})
}

func (s *Store) Search(_ context.Context, query string) ([]models.Product, error) {
	needle := strings.ToLower(query)
	return s.collect(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.MainCategory), needle) ||
			strings.Contains(strings.ToLower(p.SubCategory), needle) ||
			strings.Contains(strings.ToLower(p.Composition), needle)
	})
}

func (s *Store) Update(_ context.Context, id string, patch store.Patch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		return models.Product{}, apperror.NewNotFound("product not found")
	}

	applyPatch(&p, patch)
	p.UpdatedAt = nowAfter(p.UpdatedAt)
	s.records[id] = clone(p)
	return clone(p), nil
}

// nowAfter guarantees updatedAt advances even when the clock has not moved
// past the previous write.
func nowAfter(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Store) Delete(_ context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		return models.Product{}, apperror.NewNotFound("product not found")
	}

	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return p, nil
}

func (s *Store) collect(match func(models.Product) bool) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		if p := s.records[s.order[i]]; match(p) {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func applyPatch(p *models.Product, patch store.Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.MainCategory != nil {
		p.MainCategory = *patch.MainCategory
	}
	if patch.SubCategory != nil {
		p.SubCategory = *patch.SubCategory
	}
	if patch.NestedCategory != nil {
		p.NestedCategory = *patch.NestedCategory
	}
	if patch.Composition != nil {
		p.Composition = *patch.Composition
	}
	if patch.GSM != nil {
		p.GSM = *patch.GSM
	}
	if patch.Width != nil {
		p.Width = *patch.Width
	}
	if patch.Count != nil {
		p.Count = *patch.Count
	}
	if patch.Construction != nil {
		p.Construction = *patch.Construction
	}
	if patch.Weave != nil {
		p.Weave = *patch.Weave
	}
	if patch.Finish != nil {
		p.Finish = *patch.Finish
	}
	if patch.Specifications != nil {
		p.Specifications = *patch.Specifications
	}
	if patch.ImageData != nil {
		p.ImageData = *patch.ImageData
	}
	if patch.ImageType != nil {
		p.ImageType = *patch.ImageType
	}
	if patch.ImagePath != nil {
		p.ImagePath = *patch.ImagePath
	}
	if patch.ProductURL != nil {
		p.ProductURL = *patch.ProductURL
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
}

func clone(p models.Product) models.Product {
	if p.Specifications != nil {
		specs := make(models.SpecMap, len(p.Specifications))
		for k, v := range p.Specifications {
			specs[k] = v
		}
		p.Specifications = specs
	}
	if p.ImageData != nil {
		data := make([]byte, len(p.ImageData))
		copy(data, p.ImageData)
		p.ImageData = data
	}
	return p
}
