package handler

import (
	"log"
	"net/http"
	"strconv"

	"restaurant-management-backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the wire. Unknown errors become a
// logged 500 so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "something went wrong"})
		return
	}
	body := gin.H{"error": err.Error()}
	if details := apperr.DetailsOf(err); details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// pagination reads page/per_page query params with sane defaults.
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if err != nil || perPage < 1 {
		perPage = 10
	}
	return page, perPage
}
