// Package mongostore implements store.ProductStore on a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/apperror"
	"backend/internal/models"
	"backend/internal/store"
)

const collectionName = "products"

type Store struct {
	col *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{col: db.Collection(collectionName)}
}

func (s *Store) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NilObjectID
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Specifications == nil {
		p.Specifications = models.SpecMap{}
	}

	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return models.Product{}, apperror.NewTransient("insert product", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, apperror.NewNotFound("product not found")
	}

	var p models.Product
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, apperror.NewNotFound("product not found")
	}
	if err != nil {
		return models.Product{}, apperror.NewTransient("find product", err)
	}
	return p, nil
}

func (s *Store) List(ctx context.Context, page, limit int64) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperror.NewTransient("count products", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetSkip((page - 1) * limit).SetLimit(limit)
	}

	products, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Store) FindByCategory(ctx context.Context, mainCategory string) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"mainCategory": mainCategory}, opts)
}

func (s *Store) Search(ctx context.Context, query string) ([]models.Product, error) {
	// QuoteMeta keeps substring semantics when the query contains regex
	// metacharacters.
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"$or": []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"mainCategory": bson.M{"$regex": pattern, "$options": "i"}},
			{"subCategory": bson.M{"$regex": pattern, "$options": "i"}},
			{"composition": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, filter, opts)
}

func (s *Store) Update(ctx context.Context, id string, patch store.Patch) (models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, apperror.NewNotFound("product not found")
	}

	set := patchToSet(patch)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, apperror.NewNotFound("product not found")
	}
	if err != nil {
		return models.Product{}, apperror.NewTransient("update product", err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) (models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, apperror.NewNotFound("product not found")
	}

	var deleted models.Product
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, apperror.NewNotFound("product not found")
	}
	if err != nil {
		return models.Product{}, apperror.NewTransient("delete product", err)
	}
	return deleted, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.NewTransient("query products", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperror.NewTransient("decode products", err)
	}
	return products, nil
}

func patchToSet(patch store.Patch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.MainCategory != nil {
		set["mainCategory"] = *patch.MainCategory
	}
	if patch.SubCategory != nil {
		set["subCategory"] = *patch.SubCategory
	}
	if patch.NestedCategory != nil {
		set["nestedCategory"] = *patch.NestedCategory
	}
	if patch.Composition != nil {
		set["composition"] = *patch.Composition
	}
	if patch.GSM != nil {
		set["gsm"] = *patch.GSM
	}
	if patch.Width != nil {
		set["width"] = *patch.Width
	}
	if patch.Count != nil {
		set["count"] = *patch.Count
	}
	if patch.Construction != nil {
		set["construction"] = *patch.Construction
	}
	if patch.Weave != nil {
		set["weave"] = *patch.Weave
	}
	if patch.Finish != nil {
		set["finish"] = *patch.Finish
	}
	if patch.Specifications != nil {
		set["specifications"] = *patch.Specifications
	}
	if patch.ImageData != nil {
		set["imageData"] = *patch.ImageData
	}
	if patch.ImageType != nil {
		set["imageType"] = *patch.ImageType
	}
	if patch.ImagePath != nil {
		set["imagePath"] = *patch.ImagePath
	}
	if patch.ProductURL != nil {
		set["productUrl"] = *patch.ProductURL
	}
	if patch.InStock != nil {
		set["inStock"] = *patch.InStock
	}
	return set
}
