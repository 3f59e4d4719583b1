// Package upload runs the sequential upload-and-attach workflow.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"vsupload/internal/store"
)

// DefaultCollectionName names vector stores created by a run.
const DefaultCollectionName = "Support FAQ"

// Store is the remote side of the workflow.
type Store interface {
	CreateFile(ctx context.Context, filename string, r io.Reader, purpose string) (string, error)
	CreateCollection(ctx context.Context, name string) (string, error)
	AttachFiles(ctx context.Context, collectionID string, fileIDs []string) error
}

// FileDeleter is implemented by stores that can remove uploaded files.
type FileDeleter interface {
	DeleteFile(ctx context.Context, fileID string) error
}

// CollectionGetter is implemented by stores that can look up a collection.
type CollectionGetter interface {
	GetCollection(ctx context.Context, collectionID string) (*store.Collection, error)
}

// Connector binds a credential to a Store for one run.
type Connector func(credential string) (Store, error)

// ProgressFunc receives (completed, total) after each unit of work.
type ProgressFunc func(completed, total int)

type Options struct {
	CollectionName string
	// CleanupOnFailure deletes already uploaded files when an upload aborts.
	CleanupOnFailure bool
	// VerifyCollection looks up a caller-supplied collection before uploading.
	VerifyCollection bool
	Logger           *zap.Logger
}

type Request struct {
	Files        []string
	Credential   string
	CollectionID string
}

type UploadedFile struct {
	Path   string `json:"path"`
	Handle string `json:"handle"`
}

type Result struct {
	CollectionID string         `json:"collectionId"`
	Created      bool           `json:"created"`
	Files        []UploadedFile `json:"files"`
}

type Coordinator struct {
	connect Connector
	opts    Options
	log     *zap.Logger
}

func NewCoordinator(connect Connector, opts Options) *Coordinator {
	if strings.TrimSpace(opts.CollectionName) == "" {
		opts.CollectionName = DefaultCollectionName
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{connect: connect, opts: opts, log: log}
}

// StoreConnector returns a Connector that builds an HTTP store client per
// credential from the shared settings in cfg.
func StoreConnector(cfg store.Config) Connector {
	return func(credential string) (Store, error) {
		c := cfg
		c.APIKey = credential
		return store.New(c), nil
	}
}

// Run uploads req.Files in order, then attaches all handles to either
// req.CollectionID or a newly created collection. The first failing step
// aborts the run with an *Error; nothing is attached after a failed upload.
func (c *Coordinator) Run(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(int, int) {}
	}
	total := len(req.Files)
	if total == 0 {
		return nil, &Error{Kind: NoFilesSelected}
	}
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, &Error{Kind: MissingCredential}
	}
	collectionID := strings.TrimSpace(req.CollectionID)

	st, err := c.connect(credential)
	if err != nil {
		return nil, &Error{Kind: UploadFailed, Path: req.Files[0], Index: 0, Err: fmt.Errorf("connect: %w", err)}
	}

	if collectionID != "" && c.opts.VerifyCollection {
		if err := c.verify(ctx, st, collectionID); err != nil {
			return nil, err
		}
	}

	progress(0, total)

	handles := make([]string, 0, total)
	for i, path := range req.Files {
		if err := ctx.Err(); err != nil {
			c.cleanup(st, handles)
			return nil, &Error{Kind: Canceled, Path: path, Index: i, Err: err}
		}
		id, err := c.uploadOne(ctx, st, path)
		if err != nil && ctx.Err() != nil {
			c.log.Debug("upload interrupted", zap.String("path", path), zap.Int("index", i), zap.Error(err))
			c.cleanup(st, handles)
			return nil, &Error{Kind: Canceled, Path: path, Index: i, Err: ctx.Err()}
		}
		if err != nil {
			c.log.Debug("upload failed", zap.String("path", path), zap.Int("index", i), zap.Error(err))
			c.cleanup(st, handles)
			return nil, &Error{Kind: UploadFailed, Path: path, Index: i, Err: err}
		}
		c.log.Debug("uploaded", zap.String("path", path), zap.String("file_id", id))
		handles = append(handles, id)
		progress(i+1, total)
	}

	created := false
	if collectionID == "" {
		id, err := st.CreateCollection(ctx, c.opts.CollectionName)
		if err != nil {
			return nil, &Error{Kind: CollectionCreateFailed, Err: err}
		}
		collectionID = id
		created = true
		c.log.Debug("created collection", zap.String("collection_id", id), zap.String("name", c.opts.CollectionName))
	}

	if err := st.AttachFiles(ctx, collectionID, handles); err != nil {
		return nil, &Error{Kind: AttachFailed, CollectionID: collectionID, Err: err}
	}

	res := &Result{CollectionID: collectionID, Created: created, Files: make([]UploadedFile, total)}
	for i, path := range req.Files {
		res.Files[i] = UploadedFile{Path: path, Handle: handles[i]}
	}
	return res, nil
}

func (c *Coordinator) uploadOne(ctx context.Context, st Store, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return st.CreateFile(ctx, filepath.Base(path), f, store.PurposeAssistants)
}

func (c *Coordinator) verify(ctx context.Context, st Store, collectionID string) error {
	getter, ok := st.(CollectionGetter)
	if !ok {
		return nil
	}
	if _, err := getter.GetCollection(ctx, collectionID); err != nil {
		return &Error{Kind: AttachFailed, CollectionID: collectionID, Err: fmt.Errorf("lookup: %w", err)}
	}
	return nil
}

// cleanup removes already uploaded files when enabled. Failures are only
// logged; the original upload error is what the caller sees.
func (c *Coordinator) cleanup(st Store, handles []string) {
	if !c.opts.CleanupOnFailure || len(handles) == 0 {
		return
	}
	deleter, ok := st.(FileDeleter)
	if !ok {
		c.log.Warn("store cannot delete files; leaving uploads in place", zap.Int("count", len(handles)))
		return
	}
	// The run context may already be canceled.
	ctx := context.Background()
	for _, id := range handles {
		if err := deleter.DeleteFile(ctx, id); err != nil {
			c.log.Warn("cleanup delete failed", zap.String("file_id", id), zap.Error(err))
		}
	}
}
