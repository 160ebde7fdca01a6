package services

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

type MongoBoardService struct {
	client     *mongo.Client
	db         *mongo.Database
	notesColl  *mongo.Collection
	papersColl *mongo.Collection
	newsColl   *mongo.Collection
}

type mongoNoteDoc struct {
	ID         string    `bson:"_id"`
	UploaderID string    `bson:"uploader_id"`
	Title      string    `bson:"title"`
	Subject    string    `bson:"subject"`
	Semester   int       `bson:"semester,omitempty"`
	FileURL    string    `bson:"file_url"`
	CreatedAt  time.Time `bson:"created_at"`
}

type mongoPaperDoc struct {
	ID         string    `bson:"_id"`
	UploaderID string    `bson:"uploader_id"`
	Subject    string    `bson:"subject"`
	Year       int       `bson:"year"`
	Semester   int       `bson:"semester,omitempty"`
	ExamType   string    `bson:"exam_type,omitempty"`
	FileURL    string    `bson:"file_url"`
	CreatedAt  time.Time `bson:"created_at"`
}

type mongoNewsDoc struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	ImageURL  string    `bson:"image_url,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoBoardService(ctx context.Context, mongoURI, dbName string) (*MongoBoardService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	svc := &MongoBoardService{
		client:     client,
		db:         db,
		notesColl:  db.Collection("notes"),
		papersColl: db.Collection("question_papers"),
		newsColl:   db.Collection("news"),
	}

	// Best-effort indexes.
	_, _ = svc.notesColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "semester", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	_, _ = svc.papersColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "year", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	_, _ = svc.newsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	log.Printf("MongoDB connected (boards): db=%s", dbName)
	return svc, nil
}

func (s *MongoBoardService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoBoardService) CreateNote(ctx context.Context, uploaderID string, req *models.CreateNoteRequest) (*models.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := mongoNoteDoc{
		ID:         uuid.New().String(),
		UploaderID: uploaderID,
		Title:      req.Title,
		Subject:    req.Subject,
		Semester:   req.Semester,
		FileURL:    req.FileURL,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.notesColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return noteDocToModel(doc), nil
}

func (s *MongoBoardService) ListNotes(ctx context.Context, q *models.BoardQuery) ([]*models.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q != nil {
		if q.Subject != "" {
			filter["subject"] = bson.M{"$regex": q.Subject, "$options": "i"}
		}
		if q.Semester != 0 {
			filter["semester"] = q.Semester
		}
		if q.Search != "" {
			filter["$or"] = []bson.M{
				{"title": bson.M{"$regex": q.Search, "$options": "i"}},
				{"subject": bson.M{"$regex": q.Search, "$options": "i"}},
			}
		}
	}

	cur, err := s.notesColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.Note, 0)
	for cur.Next(ctx) {
		var d mongoNoteDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, noteDocToModel(d))
	}
	return results, cur.Err()
}

func (s *MongoBoardService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoNoteDoc
	if err := s.notesColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return noteDocToModel(doc), nil
}

func (s *MongoBoardService) CreatePaper(ctx context.Context, uploaderID string, req *models.CreateQuestionPaperRequest) (*models.QuestionPaper, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := mongoPaperDoc{
		ID:         uuid.New().String(),
		UploaderID: uploaderID,
		Subject:    req.Subject,
		Year:       req.Year,
		Semester:   req.Semester,
		ExamType:   req.ExamType,
		FileURL:    req.FileURL,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.papersColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return paperDocToModel(doc), nil
}

func (s *MongoBoardService) ListPapers(ctx context.Context, q *models.BoardQuery) ([]*models.QuestionPaper, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q != nil {
		if q.Subject != "" {
			filter["subject"] = bson.M{"$regex": q.Subject, "$options": "i"}
		}
		if q.Semester != 0 {
			filter["semester"] = q.Semester
		}
		if q.Year != 0 {
			filter["year"] = q.Year
		}
		if q.Search != "" {
			filter["subject"] = bson.M{"$regex": q.Search, "$options": "i"}
		}
	}

	cur, err := s.papersColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.QuestionPaper, 0)
	for cur.Next(ctx) {
		var d mongoPaperDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, paperDocToModel(d))
	}
	return results, cur.Err()
}

func (s *MongoBoardService) GetPaper(ctx context.Context, id string) (*models.QuestionPaper, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoPaperDoc
	if err := s.papersColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaperNotFound
		}
		return nil, err
	}
	return paperDocToModel(doc), nil
}

func (s *MongoBoardService) CreateNews(ctx context.Context, authorID string, req *models.CreateNewsRequest) (*models.NewsPost, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := mongoNewsDoc{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.newsColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return newsDocToModel(doc), nil
}

func (s *MongoBoardService) ListNews(ctx context.Context, q *models.BoardQuery) ([]*models.NewsPost, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q != nil && q.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q.Search, "$options": "i"}},
			{"body": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	cur, err := s.newsColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.NewsPost, 0)
	for cur.Next(ctx) {
		var d mongoNewsDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, newsDocToModel(d))
	}
	return results, cur.Err()
}

func (s *MongoBoardService) GetNews(ctx context.Context, id string) (*models.NewsPost, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoNewsDoc
	if err := s.newsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return newsDocToModel(doc), nil
}

func noteDocToModel(d mongoNoteDoc) *models.Note {
	return &models.Note{
		ID:         d.ID,
		UploaderID: d.UploaderID,
		Title:      d.Title,
		Subject:    d.Subject,
		Semester:   d.Semester,
		FileURL:    d.FileURL,
		CreatedAt:  d.CreatedAt,
	}
}

func paperDocToModel(d mongoPaperDoc) *models.QuestionPaper {
	return &models.QuestionPaper{
		ID:         d.ID,
		UploaderID: d.UploaderID,
		Subject:    d.Subject,
		Year:       d.Year,
		Semester:   d.Semester,
		ExamType:   d.ExamType,
		FileURL:    d.FileURL,
		CreatedAt:  d.CreatedAt,
	}
}

func newsDocToModel(d mongoNewsDoc) *models.NewsPost {
	return &models.NewsPost{
		ID:        d.ID,
		AuthorID:  d.AuthorID,
		Title:     d.Title,
		Body:      d.Body,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
	}
}
