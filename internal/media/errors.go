package media

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetNotFound matches any *NotFoundError via errors.Is.
	ErrAssetNotFound = errors.New("media asset not found")
	// ErrIDCollision marks a PersistError caused by a duplicate id.
	ErrIDCollision = errors.New("media id collision")
	// ErrTooManyPixels is returned when a source image declares more pixels than allowed.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// Pipeline stages reported by Stage.
const (
	StageFetch     = "fetch"
	StageTranscode = "transcode"
	StagePersist   = "persist"
	StageLookup    = "lookup"
)

// FetchError reports a failed retrieval of a source image.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TranscodeError reports a decode or encode failure.
type TranscodeError struct {
	Path string
	Err  error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode %s: %v", e.Path, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// PersistError reports a storage write failure. Collision is set when the
// store rejected the id as a duplicate; callers treat that as fatal.
type PersistError struct {
	ID        int64
	Collision bool
	Err       error
}

func (e *PersistError) Error() string {
	if e.Collision {
		return fmt.Sprintf("persist media %d: id already exists: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("persist media %d: %v", e.ID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIDCollision) match collisions.
func (e *PersistError) Is(target error) bool {
	return target == ErrIDCollision && e.Collision
}

// NotFoundError reports a missing asset or content item.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrAssetNotFound && e.Kind == "media"
}

// Stage names the pipeline stage that produced err, or "" if unknown.
func Stage(err error) string {
	var (
		fetchErr     *FetchError
		transcodeErr *TranscodeError
		persistErr   *PersistError
		notFoundErr  *NotFoundError
	)
	switch {
	case errors.As(err, &fetchErr):
		return StageFetch
	case errors.As(err, &transcodeErr):
		return StageTranscode
	case errors.As(err, &persistErr):
		return StagePersist
	case errors.As(err, &notFoundErr):
		return StageLookup
	default:
		return ""
	}
}
