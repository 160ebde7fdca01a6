package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

// BoardHandler serves the study notes, past-year question papers and
// campus news boards.
type BoardHandler struct {
	boardService services.BoardService
}

func NewBoardHandler(boardService services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

func (h *BoardHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	note, err := h.boardService.CreateNote(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreateNote] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create note"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(note))
}

func (h *BoardHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.boardService.ListNotes(r.Context(), boardQueryFromRequest(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list notes"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(notes))
}

func (h *BoardHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.boardService.GetNote(r.Context(), chi.URLParam(r, "noteId"))
	if err != nil {
		if err == services.ErrNoteNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Note not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get note"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(note))
}

func (h *BoardHandler) CreatePaper(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateQuestionPaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	paper, err := h.boardService.CreatePaper(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreatePaper] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create question paper"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(paper))
}

func (h *BoardHandler) ListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.boardService.ListPapers(r.Context(), boardQueryFromRequest(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list question papers"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(papers))
}

func (h *BoardHandler) GetPaper(w http.ResponseWriter, r *http.Request) {
	paper, err := h.boardService.GetPaper(r.Context(), chi.URLParam(r, "paperId"))
	if err != nil {
		if err == services.ErrPaperNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Question paper not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get question paper"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(paper))
}

func (h *BoardHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	post, err := h.boardService.CreateNews(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreateNews] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create news post"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

func (h *BoardHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.boardService.ListNews(r.Context(), boardQueryFromRequest(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list news"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(news))
}

func (h *BoardHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	post, err := h.boardService.GetNews(r.Context(), chi.URLParam(r, "newsId"))
	if err != nil {
		if err == services.ErrNewsNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("News post not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get news post"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func boardQueryFromRequest(r *http.Request) *models.BoardQuery {
	query := r.URL.Query()
	return &models.BoardQuery{
		Subject:  strings.TrimSpace(query.Get("subject")),
		Semester: queryInt(r, "semester", 0),
		Year:     queryInt(r, "year", 0),
		Search:   strings.TrimSpace(query.Get("search")),
	}
}
