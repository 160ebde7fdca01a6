package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

// BoardService manages the file-backed resource boards: study notes,
// past-year question papers and campus news.
type BoardService interface {
	CreateNote(ctx context.Context, uploaderID string, req *models.CreateNoteRequest) (*models.Note, error)
	ListNotes(ctx context.Context, q *models.BoardQuery) ([]*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)

	CreatePaper(ctx context.Context, uploaderID string, req *models.CreateQuestionPaperRequest) (*models.QuestionPaper, error)
	ListPapers(ctx context.Context, q *models.BoardQuery) ([]*models.QuestionPaper, error)
	GetPaper(ctx context.Context, id string) (*models.QuestionPaper, error)

	CreateNews(ctx context.Context, authorID string, req *models.CreateNewsRequest) (*models.NewsPost, error)
	ListNews(ctx context.Context, q *models.BoardQuery) ([]*models.NewsPost, error)
	GetNews(ctx context.Context, id string) (*models.NewsPost, error)
}

// MemoryBoardService is the in-memory BoardService used in tests and
// local runs.
type MemoryBoardService struct {
	mu     sync.RWMutex
	notes  map[string]*models.Note
	papers map[string]*models.QuestionPaper
	news   map[string]*models.NewsPost
}

func NewMemoryBoardService() *MemoryBoardService {
	return &MemoryBoardService{
		notes:  make(map[string]*models.Note),
		papers: make(map[string]*models.QuestionPaper),
		news:   make(map[string]*models.NewsPost),
	}
}

func (s *MemoryBoardService) CreateNote(ctx context.Context, uploaderID string, req *models.CreateNoteRequest) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := &models.Note{
		ID:         uuid.New().String(),
		UploaderID: uploaderID,
		Title:      req.Title,
		Subject:    req.Subject,
		Semester:   req.Semester,
		FileURL:    req.FileURL,
		CreatedAt:  time.Now().UTC(),
	}
	s.notes[note.ID] = note
	return note, nil
}

func (s *MemoryBoardService) ListNotes(ctx context.Context, q *models.BoardQuery) ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.Note, 0)
	for _, n := range s.notes {
		if q != nil {
			if q.Subject != "" && !strings.EqualFold(n.Subject, q.Subject) {
				continue
			}
			if q.Semester != 0 && n.Semester != q.Semester {
				continue
			}
			if q.Search != "" && !containsFold(n.Title, q.Search) && !containsFold(n.Subject, q.Search) {
				continue
			}
		}
		results = append(results, n)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}

func (s *MemoryBoardService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, exists := s.notes[id]
	if !exists {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *MemoryBoardService) CreatePaper(ctx context.Context, uploaderID string, req *models.CreateQuestionPaperRequest) (*models.QuestionPaper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paper := &models.QuestionPaper{
		ID:         uuid.New().String(),
		UploaderID: uploaderID,
		Subject:    req.Subject,
		Year:       req.Year,
		Semester:   req.Semester,
		ExamType:   req.ExamType,
		FileURL:    req.FileURL,
		CreatedAt:  time.Now().UTC(),
	}
	s.papers[paper.ID] = paper
	return paper, nil
}

func (s *MemoryBoardService) ListPapers(ctx context.Context, q *models.BoardQuery) ([]*models.QuestionPaper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.QuestionPaper, 0)
	for _, p := range s.papers {
		if q != nil {
			if q.Subject != "" && !strings.EqualFold(p.Subject, q.Subject) {
				continue
			}
			if q.Semester != 0 && p.Semester != q.Semester {
				continue
			}
			if q.Year != 0 && p.Year != q.Year {
				continue
			}
			if q.Search != "" && !containsFold(p.Subject, q.Search) {
				continue
			}
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}

func (s *MemoryBoardService) GetPaper(ctx context.Context, id string) (*models.QuestionPaper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paper, exists := s.papers[id]
	if !exists {
		return nil, ErrPaperNotFound
	}
	return paper, nil
}

func (s *MemoryBoardService) CreateNews(ctx context.Context, authorID string, req *models.CreateNewsRequest) (*models.NewsPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.NewsPost{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now().UTC(),
	}
	s.news[post.ID] = post
	return post, nil
}

func (s *MemoryBoardService) ListNews(ctx context.Context, q *models.BoardQuery) ([]*models.NewsPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.NewsPost, 0)
	for _, p := range s.news {
		if q != nil && q.Search != "" && !containsFold(p.Title, q.Search) && !containsFold(p.Body, q.Search) {
			continue
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}

func (s *MemoryBoardService) GetNews(ctx context.Context, id string) (*models.NewsPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.news[id]
	if !exists {
		return nil, ErrNewsNotFound
	}
	return post, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
