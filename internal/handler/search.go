package handler

import (
	"net/http"

	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler exposes the query cycle over HTTP.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchRequest is the JSON body of a search call.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// Search handles POST /api/v1/search: free text in, structured query
// and listings out.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	query, listings, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"total":    len(listings),
		"listings": listings,
	})
}
