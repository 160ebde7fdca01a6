package models

import (
	"time"
)

// Note is a shared study resource backed by an uploaded file.
type Note struct {
	ID         string    `json:"id"`
	UploaderID string    `json:"uploader_id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Semester   int       `json:"semester"`
	FileURL    string    `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionPaper is a past-year exam paper.
type QuestionPaper struct {
	ID         string    `json:"id"`
	UploaderID string    `json:"uploader_id"`
	Subject    string    `json:"subject"`
	Year       int       `json:"year"`
	Semester   int       `json:"semester"`
	ExamType   string    `json:"exam_type"`
	FileURL    string    `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewsPost is a campus news/announcement entry.
type NewsPost struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateNoteRequest struct {
	Title    string `json:"title"`
	Subject  string `json:"subject"`
	Semester int    `json:"semester"`
	FileURL  string `json:"file_url"`
}

type CreateQuestionPaperRequest struct {
	Subject  string `json:"subject"`
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
	ExamType string `json:"exam_type"`
	FileURL  string `json:"file_url"`
}

type CreateNewsRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

// BoardQuery filters board listings; zero values mean "any".
type BoardQuery struct {
	Subject  string `json:"subject"`
	Semester int    `json:"semester"`
	Year     int    `json:"year"`
	Search   string `json:"search"`
}

func (r *CreateNoteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Subject == "" {
		errors["subject"] = "Subject is required"
	}
	if r.FileURL == "" {
		errors["file_url"] = "File URL is required"
	}

	return errors
}

func (r *CreateQuestionPaperRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Subject == "" {
		errors["subject"] = "Subject is required"
	}
	if r.Year <= 0 {
		errors["year"] = "Year is required"
	}
	if r.FileURL == "" {
		errors["file_url"] = "File URL is required"
	}

	return errors
}

func (r *CreateNewsRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Body == "" {
		errors["body"] = "Body is required"
	}

	return errors
}
