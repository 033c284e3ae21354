package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
)

const maxMultipartMemory = 32 << 20

// parseProductForm decodes a multipart product submission into a
// catalog.ProductInput, marking each field it actually saw so updates can
// tell an absent field from an empty one.
func parseProductForm(c *gin.Context) (catalog.ProductInput, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return catalog.ProductInput{}, err
	}

	input := catalog.ProductInput{}

	setString := func(key string, dst *string, set *bool) {
		if value, ok := c.GetPostForm(key); ok {
			*dst = strings.TrimSpace(value)
			*set = true
		}
	}

	setString("name", &input.Name, &input.NameSet)
	setString("price", &input.Price, &input.PriceSet)
	setString("mainCategory", &input.MainCategory, &input.MainCategorySet)
	setString("subCategory", &input.SubCategory, &input.SubCategorySet)
	setString("nestedCategory", &input.NestedCategory, &input.NestedCategorySet)
	setString("composition", &input.Composition, &input.CompositionSet)
	setString("gsm", &input.GSM, &input.GSMSet)
	setString("width", &input.Width, &input.WidthSet)
	setString("count", &input.Count, &input.CountSet)
	setString("construction", &input.Construction, &input.ConstructionSet)
	setString("weave", &input.Weave, &input.WeaveSet)
	setString("finish", &input.Finish, &input.FinishSet)

	if value, ok := c.GetPostForm("specifications"); ok {
		input.Specifications = catalog.SpecificationsInput{Serialized: value, Set: true}
	}

	if value, ok := c.GetPostForm("inStock"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return catalog.ProductInput{}, err
		}
		input.InStock = parsed
		input.InStockSet = true
	}

	file, err := c.FormFile("image")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			return catalog.ProductInput{}, err
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return catalog.ProductInput{}, err
		}

		input.Image = &catalog.ImageUpload{
			Data:        data,
			ContentType: file.Header.Get("Content-Type"),
			Filename:    file.Filename,
		}
	} else if !errors.Is(err, http.ErrMissingFile) &&
		!strings.Contains(err.Error(), "no such file") {
		return catalog.ProductInput{}, err
	}

	return input, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}
