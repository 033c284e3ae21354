package catalog

import (
	"net/url"
	"strings"
)

// ProductsBasePath is the catalog root every derived product URL builds on.
const ProductsBasePath = "/products"

// Top-level taxonomy keys with dedicated URL rules. Comparison is
// case-insensitive; emitted values keep the caller's casing.
const (
	CategoryFabricsStructure = "fabrics structure"
	CategoryWovenFabrics     = "woven fabrics"
	CategoryFabricsFinish    = "fabrics finish"
)

// Woven-fabric sub categories that map to the type parameter instead of
// subCategory.
var wovenFabricTypes = map[string]struct{}{
	"greige":  {},
	"rfd":     {},
	"solid":   {},
	"printed": {},
}

// BuildProductURL derives the canonical catalog URL from the category
// fields. It is a pure function: the same inputs always yield the same
// string. Parameters keep a fixed order (category, then subCategory or
// type, then fabricType), which is why the query string is assembled by
// hand rather than through url.Values.
func BuildProductURL(mainCategory, subCategory, nestedCategory string) string {
	main := strings.TrimSpace(mainCategory)
	sub := strings.TrimSpace(subCategory)
	nested := strings.TrimSpace(nestedCategory)

	if main == "" && sub == "" {
		return ProductsBasePath
	}

	params := make([]string, 0, 3)
	if main != "" {
		params = append(params, "category="+url.QueryEscape(main))
	}

	if sub != "" {
		switch strings.ToLower(main) {
		case CategoryFabricsStructure, CategoryFabricsFinish:
			params = append(params, "subCategory="+url.QueryEscape(sub))
		case CategoryWovenFabrics:
			if _, ok := wovenFabricTypes[strings.ToLower(sub)]; ok {
				params = append(params, "type="+url.QueryEscape(sub))
				if nested != "" {
					params = append(params, "fabricType="+url.QueryEscape(nested))
				}
			} else {
				params = append(params, "subCategory="+url.QueryEscape(sub))
			}
		}
	}

	if len(params) == 0 {
		return ProductsBasePath
	}
	return ProductsBasePath + "?" + strings.Join(params, "&")
}
