package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
)

func CreateProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "multipart/form-data required"})
			return
		}

		input, err := parseProductForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		created, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func GetProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func ListProducts(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := svc.List(c.Request.Context(), page, limit)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": result.Data,
			"pagination": gin.H{
				"page":    result.Page,
				"limit":   result.Limit,
				"total":   result.Total,
				"hasMore": result.HasMore,
			},
		})
	}
}

func ProductsByCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/category/:category"
		defer handlePanic(c, route)

		products, err := svc.FindByCategory(c.Request.Context(), c.Param("category"))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func SearchProducts(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/search"
		defer handlePanic(c, route)

		products, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func UpdateProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		var input catalog.ProductInput
		var err error
		if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			input, err = parseProductForm(c)
		} else {
			input, err = parseProductJSON(c)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := svc.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

func GetProductImage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id/image"
		defer handlePanic(c, route)

		data, contentType, err := svc.GetImage(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

// productUpdateRequest is the JSON body form of a partial update; pointer
// fields mirror the form parser's set flags.
type productUpdateRequest struct {
	Name           *string                      `json:"name"`
	Price          *priceValue                  `json:"price"`
	MainCategory   *string                      `json:"mainCategory"`
	SubCategory    *string                      `json:"subCategory"`
	NestedCategory *string                      `json:"nestedCategory"`
	Composition    *string                      `json:"composition"`
	GSM            *string                      `json:"gsm"`
	Width          *string                      `json:"width"`
	Count          *string                      `json:"count"`
	Construction   *string                      `json:"construction"`
	Weave          *string                      `json:"weave"`
	Finish         *string                      `json:"finish"`
	Specifications *catalog.SpecificationsInput `json:"specifications"`
	InStock        *bool                        `json:"inStock"`
}

// priceValue accepts a JSON number or string so price coercion behaves the
// same for both body styles.
type priceValue string

func (p *priceValue) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = priceValue(text)
		return nil
	}
	*p = priceValue(strings.TrimSpace(string(data)))
	return nil
}

func parseProductJSON(c *gin.Context) (catalog.ProductInput, error) {
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return catalog.ProductInput{}, err
	}

	input := catalog.ProductInput{}

	setString := func(src *string, dst *string, set *bool) {
		if src != nil {
			*dst = *src
			*set = true
		}
	}
	setString(req.Name, &input.Name, &input.NameSet)
	setString(req.MainCategory, &input.MainCategory, &input.MainCategorySet)
	setString(req.SubCategory, &input.SubCategory, &input.SubCategorySet)
	setString(req.NestedCategory, &input.NestedCategory, &input.NestedCategorySet)
	setString(req.Composition, &input.Composition, &input.CompositionSet)
	setString(req.GSM, &input.GSM, &input.GSMSet)
	setString(req.Width, &input.Width, &input.WidthSet)
	setString(req.Count, &input.Count, &input.CountSet)
	setString(req.Construction, &input.Construction, &input.ConstructionSet)
	setString(req.Weave, &input.Weave, &input.WeaveSet)
	setString(req.Finish, &input.Finish, &input.FinishSet)

	if req.Price != nil {
		input.Price = string(*req.Price)
		input.PriceSet = true
	}
	if req.Specifications != nil {
		input.Specifications = *req.Specifications
	}
	if req.InStock != nil {
		input.InStock = *req.InStock
		input.InStockSet = true
	}

	return input, nil
}
