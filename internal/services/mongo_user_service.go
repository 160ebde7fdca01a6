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
	"golang.org/x/crypto/bcrypt"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

type MongoUserService struct {
	client    *mongo.Client
	db        *mongo.Database
	usersColl *mongo.Collection
}

type mongoUserDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	Name         string    `bson:"name"`
	Number       string    `bson:"number,omitempty"`
	GoogleID     string    `bson:"google_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
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
	users := db.Collection("users")

	svc := &MongoUserService{
		client:    client,
		db:        db,
		usersColl: users,
	}

	// Best-effort indexes.
	_, _ = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	log.Printf("MongoDB connected (users): db=%s", dbName)
	return svc, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func userDocToModel(d mongoUserDoc) *models.User {
	return &models.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Number:       d.Number,
		GoogleID:     d.GoogleID,
		CreatedAt:    d.CreatedAt,
	}
}

func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := s.usersColl.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	doc := mongoUserDoc{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Number:       req.Number,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.usersColl.InsertOne(ctx, doc); err != nil {
		// The unique email index closes the check-then-insert window.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return userDocToModel(doc), nil
}

func (s *MongoUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoUserDoc
	if err := s.usersColl.FindOne(ctx, bson.M{"email": req.Email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return userDocToModel(doc), nil
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoUserDoc
	if err := s.usersColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userDocToModel(doc), nil
}

func (s *MongoUserService) FindOrCreateGoogleUser(ctx context.Context, email, name, googleID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res := s.usersColl.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"google_id": googleID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc mongoUserDoc
	err := res.Decode(&doc)
	if err == nil {
		return userDocToModel(doc), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	doc = mongoUserDoc{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		GoogleID:  googleID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.usersColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return userDocToModel(doc), nil
}
