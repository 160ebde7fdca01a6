package models

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response with a human-readable message
func NewMessageResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// SearchResult is the payload of the global search endpoint.
type SearchResult struct {
	Listings []*Listing       `json:"listings"`
	Notes    []*Note          `json:"notes"`
	Papers   []*QuestionPaper `json:"papers"`
	News     []*NewsPost      `json:"news"`
}

// FileUploadResponse is returned after a successful upload to object storage.
type FileUploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
