package upload

import (
	"errors"
	"fmt"
)

// Kind classifies why a run stopped.
type Kind int

const (
	NoFilesSelected Kind = iota + 1
	MissingCredential
	UploadFailed
	CollectionCreateFailed
	AttachFailed
	Canceled
)

func (k Kind) String() string {
	switch k {
	case NoFilesSelected:
		return "no files selected"
	case MissingCredential:
		return "missing credential"
	case UploadFailed:
		return "upload failed"
	case CollectionCreateFailed:
		return "collection create failed"
	case AttachFailed:
		return "attach failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrNoFilesSelected        = &Error{Kind: NoFilesSelected}
	ErrMissingCredential      = &Error{Kind: MissingCredential}
	ErrUploadFailed           = &Error{Kind: UploadFailed}
	ErrCollectionCreateFailed = &Error{Kind: CollectionCreateFailed}
	ErrAttachFailed           = &Error{Kind: AttachFailed}
	ErrCanceled               = &Error{Kind: Canceled}
)

// Error is returned by Coordinator.Run. Path and Index are set for
// UploadFailed and Canceled, CollectionID for AttachFailed.
type Error struct {
	Kind         Kind
	Path         string
	Index        int
	CollectionID string
	Err          error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case NoFilesSelected:
		msg = "no files to upload"
	case MissingCredential:
		msg = "api key is required"
	case UploadFailed:
		msg = fmt.Sprintf("upload of %s (file %d) failed", e.Path, e.Index+1)
	case CollectionCreateFailed:
		msg = "creating vector store failed"
	case AttachFailed:
		msg = fmt.Sprintf("attaching files to vector store %s failed", e.CollectionID)
	case Canceled:
		msg = fmt.Sprintf("canceled at %s (file %d)", e.Path, e.Index+1)
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsNothingToDo reports whether err means the selection was empty. Shells
// should present it as information rather than a failure.
func IsNothingToDo(err error) bool {
	return errors.Is(err, ErrNoFilesSelected)
}
