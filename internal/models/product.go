package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one textile item in the catalog. Depending on the configured
// image storage mode a record carries either inline bytes plus their content
// type, or a relative path into the upload area; the two are never mixed on
// a single record. Image is the display form filled in on reads and is never
// persisted.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Price          float64            `bson:"price" json:"price"`
	MainCategory   string             `bson:"mainCategory" json:"mainCategory"`
	SubCategory    string             `bson:"subCategory" json:"subCategory"`
	NestedCategory string             `bson:"nestedCategory,omitempty" json:"nestedCategory,omitempty"`
	Composition    string             `bson:"composition,omitempty" json:"composition,omitempty"`
	GSM            string             `bson:"gsm,omitempty" json:"gsm,omitempty"`
	Width          string             `bson:"width,omitempty" json:"width,omitempty"`
	Count          string             `bson:"count,omitempty" json:"count,omitempty"`
	Construction   string             `bson:"construction,omitempty" json:"construction,omitempty"`
	Weave          string             `bson:"weave,omitempty" json:"weave,omitempty"`
	Finish         string             `bson:"finish,omitempty" json:"finish,omitempty"`
	Specifications SpecMap            `bson:"specifications" json:"specifications"`
	ImageData      []byte             `bson:"imageData,omitempty" json:"-"`
	ImageType      string             `bson:"imageType,omitempty" json:"-"`
	ImagePath      string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Image          string             `bson:"-" json:"image,omitempty"`
	ProductURL     string             `bson:"productUrl" json:"productUrl"`
	InStock        bool               `bson:"inStock" json:"inStock"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
