package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperror"
	"backend/internal/catalog"
	"backend/internal/store/memstore"
)

func newInlineService(mode catalog.ImageMode, maxBytes int64) *catalog.Service {
	policy := catalog.ImagePolicy{
		Mode:        mode,
		MaxBytes:    maxBytes,
		Placeholder: "uploads/products/placeholder.png",
	}
	return catalog.NewService(memstore.New(), policy, 0)
}

func validInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name: "Premium Greige Sheeting", NameSet: true,
		Price: "45.75", PriceSet: true,
		MainCategory: "woven fabrics", MainCategorySet: true,
		SubCategory: "greige", SubCategorySet: true,
		NestedCategory: "cotton", NestedCategorySet: true,
		Composition: "100% cotton", CompositionSet: true,
		GSM: "180", GSMSet: true,
	}
}

func pngUpload(size int) *catalog.ImageUpload {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	return &catalog.ImageUpload{Data: data, ContentType: "image/png", Filename: "swatch.png"}
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	first, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, first.ID.IsZero())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
}

func TestCreateRoundTrip(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, "Premium Greige Sheeting", got.Name)
	assert.Equal(t, 45.75, got.Price)
	assert.Equal(t, "woven fabrics", got.MainCategory)
	assert.Equal(t, "greige", got.SubCategory)
	assert.Equal(t, "cotton", got.NestedCategory)
	assert.Equal(t, "100% cotton", got.Composition)
	assert.True(t, got.InStock)
	assert.Equal(t, "/products?category=woven+fabrics&type=greige&fabricType=cotton", got.ProductURL)
}

func TestCreateDerivesSpecificationsWhenAbsent(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "woven fabrics", created.Specifications["category"])
	assert.Equal(t, "100% cotton", created.Specifications["composition"])
	assert.Equal(t, "180", created.Specifications["gsm"])
}

func TestCreateRequiredFieldValidation(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	for _, missing := range []string{"name", "mainCategory", "subCategory"} {
		in := validInput()
		switch missing {
		case "name":
			in.Name = "  "
		case "mainCategory":
			in.MainCategory = ""
		case "subCategory":
			in.SubCategory = ""
		}
		_, err := svc.Create(context.Background(), in)
		var validation *apperror.ValidationError
		assert.ErrorAs(t, err, &validation, "missing %s", missing)
	}
}

func TestCreateRequiredImageMode(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineRequired, 1<<20)

	_, err := svc.Create(context.Background(), validInput())
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)

	in := validInput()
	in.Image = pngUpload(64)
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Image, "data:image/png;base64,"))
}

func TestCreateOversizedImageLeavesNothingPersisted(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 128)

	in := validInput()
	in.Image = pngUpload(1024)
	_, err := svc.Create(context.Background(), in)
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Data)
}

func TestCreateRejectsUnsupportedImageType(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	in := validInput()
	in.Image = &catalog.ImageUpload{Data: []byte("plain"), ContentType: "text/plain", Filename: "notes.txt"}
	_, err := svc.Create(context.Background(), in)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestOptionalModeReturnsPlaceholderWithoutImage(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "uploads/products/placeholder.png", created.Image)
}

func TestUpdateWithoutImageRetainsStoredImage(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	in := validInput()
	in.Image = pngUpload(64)
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	newName := "Renamed Sheeting"
	_, err = svc.Update(context.Background(), created.ID.Hex(), catalog.ProductInput{Name: newName, NameSet: true})
	require.NoError(t, err)

	data, contentType, err := svc.GetImage(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, pngUpload(64).Data, data)
	assert.Equal(t, "image/png", contentType)
}

func TestUpdateWithImageReplacesEntirely(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	in := validInput()
	in.Image = pngUpload(64)
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	replacement := &catalog.ImageUpload{Data: []byte("new-bytes"), ContentType: "image/jpeg", Filename: "new.jpg"}
	_, err = svc.Update(context.Background(), created.ID.Hex(), catalog.ProductInput{Image: replacement})
	require.NoError(t, err)

	data, contentType, err := svc.GetImage(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []byte("new-bytes"), data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestUpdateRecomputesProductURLOnCategoryChange(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID.Hex(), catalog.ProductInput{
		SubCategory: "dyed", SubCategorySet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/products?category=woven+fabrics&subCategory=dyed", updated.ProductURL)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID.Hex(), catalog.ProductInput{})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	_, err := svc.Update(context.Background(), "64f000000000000000000000", catalog.ProductInput{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteUnknownIDReturnsNotFound(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	err := svc.Delete(context.Background(), "64f000000000000000000000")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteRemovesRecord(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID.Hex()))
	_, err = svc.Get(context.Background(), created.ID.Hex())
	assert.True(t, apperror.IsNotFound(err))
}

func TestSearchMatchesSingleRecord(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	other := validInput()
	other.Name = "Voile Curtain Fabric"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), "voile")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Voile Curtain Fabric", results[0].Name)

	empty, err := svc.Search(context.Background(), "corduroy")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFindByCategoryExactMatch(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	other := validInput()
	other.MainCategory = "fabrics finish"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	results, err := svc.FindByCategory(context.Background(), "woven fabrics")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "woven fabrics", results[0].MainCategory)

	// exact match, not substring
	none, err := svc.FindByCategory(context.Background(), "woven")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPaginationWithFixedPageSize(t *testing.T) {
	policy := catalog.ImagePolicy{Mode: catalog.ImageInlineOptional, MaxBytes: 1 << 20}
	svc := catalog.NewService(memstore.New(), policy, 2)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
	}

	// requested limit is overridden by the configured page size
	first, err := svc.List(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Len(t, first.Data, 2)
	assert.Equal(t, int64(2), first.Limit)
	assert.Equal(t, int64(3), first.Total)
	assert.True(t, first.HasMore)

	second, err := svc.List(context.Background(), 2, 50)
	require.NoError(t, err)
	assert.Len(t, second.Data, 1)
	assert.False(t, second.HasMore)
}

func TestPriceCoercionOnCreate(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	in := validInput()
	in.Price = "abc"
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, created.Price)

	in = validInput()
	in.Price = ""
	in.PriceSet = false
	created, err = svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, created.Price)
}

func TestMalformedSpecificationsDoNotFailCreate(t *testing.T) {
	svc := newInlineService(catalog.ImageInlineOptional, 1<<20)

	in := validInput()
	in.Specifications = catalog.SpecificationsInput{Serialized: "{broken", Set: true}
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created.Specifications)
	assert.Empty(t, created.Specifications)
}

func TestFilesystemModeStoresPathOnly(t *testing.T) {
	dir := t.TempDir()
	policy := catalog.ImagePolicy{
		Mode:         catalog.ImageFilesystem,
		MaxBytes:     1 << 20,
		UploadDir:    dir,
		PublicPrefix: "uploads/products",
	}
	svc := catalog.NewService(memstore.New(), policy, 0)

	in := validInput()
	in.Image = pngUpload(128)
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Empty(t, created.ImageData)
	require.True(t, strings.HasPrefix(created.ImagePath, "uploads/products/"))
	assert.Equal(t, created.ImagePath, created.Image)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))

	data, contentType, err := svc.GetImage(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, pngUpload(128).Data, data)
	assert.Equal(t, "image/png", contentType)
}

func TestFilesystemModeReplacementRemovesOldFile(t *testing.T) {
	dir := t.TempDir()
	policy := catalog.ImagePolicy{
		Mode:         catalog.ImageFilesystem,
		MaxBytes:     1 << 20,
		UploadDir:    dir,
		PublicPrefix: "uploads/products",
	}
	svc := catalog.NewService(memstore.New(), policy, 0)

	in := validInput()
	in.Image = pngUpload(128)
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	replacement := &catalog.ImageUpload{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg", Filename: "new.jpg"}
	updated, err := svc.Update(context.Background(), created.ID.Hex(), catalog.ProductInput{Image: replacement})
	require.NoError(t, err)
	assert.NotEqual(t, created.ImagePath, updated.ImagePath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".jpg", filepath.Ext(entries[0].Name()))
}
