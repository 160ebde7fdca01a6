package handlers

import (
	"net/http"
	"strings"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing required parameter: q"))
		return
	}

	result, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Search failed"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
