package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend/internal/apperror"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondWithAppError maps a typed error onto its HTTP shape; untyped
// errors come back as a generic 500 without leaking internals.
func respondWithAppError(c *gin.Context, route string, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	log.Printf("[%s] returning error %d (%s): %v", route, status, category, err)
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": category})
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(0)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page: %s", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit: %s", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}
