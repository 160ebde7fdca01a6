package services

import (
	"context"
	"log"
	"strings"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

// SearchService fans a free-text query out across listings and the
// resource boards. A failure in one source degrades that section to empty
// rather than failing the whole search.
type SearchService struct {
	listings ListingService
	boards   BoardService
}

func NewSearchService(listings ListingService, boards BoardService) *SearchService {
	return &SearchService{listings: listings, boards: boards}
}

func (s *SearchService) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	result := &models.SearchResult{
		Listings: []*models.Listing{},
		Notes:    []*models.Note{},
		Papers:   []*models.QuestionPaper{},
		News:     []*models.NewsPost{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	if listings, err := s.listings.List(ctx, &models.ListingQuery{Search: query}); err != nil {
		log.Printf("[Search] listings failed: %v", err)
	} else {
		result.Listings = listings
	}

	boardQuery := &models.BoardQuery{Search: query}
	if notes, err := s.boards.ListNotes(ctx, boardQuery); err != nil {
		log.Printf("[Search] notes failed: %v", err)
	} else {
		result.Notes = notes
	}
	if papers, err := s.boards.ListPapers(ctx, boardQuery); err != nil {
		log.Printf("[Search] papers failed: %v", err)
	} else {
		result.Papers = papers
	}
	if news, err := s.boards.ListNews(ctx, boardQuery); err != nil {
		log.Printf("[Search] news failed: %v", err)
	} else {
		result.News = news
	}

	return result, nil
}
