package store

import (
	"fmt"
	"time"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// PurposeAssistants is the classification the files endpoint requires for
	// files that end up in a vector store.
	PurposeAssistants = "assistants"

	defaultTimeout = 60 * time.Second
)

type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	UserAgent      string
}

// File is the subset of the remote file object we read back.
type File struct {
	ID       string `json:"id"`
	Object   string `json:"object"`
	Bytes    int64  `json:"bytes"`
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
}

// Collection is a remote vector store.
type Collection struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// FileBatch is returned when files are attached to a vector store.
type FileBatch struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	VectorStoreID string `json:"vector_store_id"`
	Status        string `json:"status"`
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

type attachFilesRequest struct {
	FileIDs []string `json:"file_ids"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// APIError is a non-2xx answer from the store.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store returned status %d", e.Status)
	}
	return fmt.Sprintf("store returned status %d: %s", e.Status, e.Message)
}
