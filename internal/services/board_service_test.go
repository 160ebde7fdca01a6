package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

func TestNotesBoard(t *testing.T) {
	svc := NewMemoryBoardService()
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, "uploader-1", &models.CreateNoteRequest{
		Title:    "DBMS unit 3",
		Subject:  "DBMS",
		Semester: 4,
		FileURL:  "https://example.com/dbms.pdf",
	})
	require.NoError(t, err)

	got, err := svc.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "DBMS unit 3", got.Title)

	_, err = svc.GetNote(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	bySubject, err := svc.ListNotes(ctx, &models.BoardQuery{Subject: "dbms"})
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)

	bySemester, err := svc.ListNotes(ctx, &models.BoardQuery{Semester: 5})
	require.NoError(t, err)
	assert.Empty(t, bySemester)
}

func TestPapersBoardFilters(t *testing.T) {
	svc := NewMemoryBoardService()
	ctx := context.Background()

	_, err := svc.CreatePaper(ctx, "uploader-1", &models.CreateQuestionPaperRequest{
		Subject: "Maths", Year: 2024, Semester: 2, ExamType: "midsem", FileURL: "https://example.com/m24.pdf",
	})
	require.NoError(t, err)
	_, err = svc.CreatePaper(ctx, "uploader-1", &models.CreateQuestionPaperRequest{
		Subject: "Maths", Year: 2023, Semester: 2, ExamType: "endsem", FileURL: "https://example.com/m23.pdf",
	})
	require.NoError(t, err)

	byYear, err := svc.ListPapers(ctx, &models.BoardQuery{Subject: "maths", Year: 2024})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, 2024, byYear[0].Year)
}

func TestNewsBoardSearch(t *testing.T) {
	svc := NewMemoryBoardService()
	ctx := context.Background()

	_, err := svc.CreateNews(ctx, "author-1", &models.CreateNewsRequest{
		Title: "Tech fest announced", Body: "Registrations open next week.",
	})
	require.NoError(t, err)
	_, err = svc.CreateNews(ctx, "author-1", &models.CreateNewsRequest{
		Title: "Mess menu update", Body: "New weekend menu.",
	})
	require.NoError(t, err)

	hits, err := svc.ListNews(ctx, &models.BoardQuery{Search: "fest"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Tech fest announced", hits[0].Title)
}

func TestGlobalSearchFansOut(t *testing.T) {
	users := NewMemoryUserService(nil)
	seller, err := users.Register(context.Background(), &models.RegisterRequest{
		Email: "seller@campus.edu", Password: "secret1", Name: "Seller",
	})
	require.NoError(t, err)

	listings := NewMemoryListingService(users, nil)
	boards := NewMemoryBoardService()
	search := NewSearchService(listings, boards)
	ctx := context.Background()

	req := testCreateRequest()
	req.Title = "Physics textbook"
	_, err = listings.Create(ctx, seller.ID, req)
	require.NoError(t, err)

	_, err = boards.CreateNote(ctx, seller.ID, &models.CreateNoteRequest{
		Title: "Physics notes", Subject: "Physics", FileURL: "https://example.com/p.pdf",
	})
	require.NoError(t, err)

	result, err := search.Search(ctx, "physics")
	require.NoError(t, err)
	assert.Len(t, result.Listings, 1)
	assert.Len(t, result.Notes, 1)
	assert.Empty(t, result.Papers)
	assert.Empty(t, result.News)

	empty, err := search.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, empty.Listings)
}
