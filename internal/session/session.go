// Package session owns the editing session state machine: one resume
// document per session, mutated only through whole-document replacement, and
// at most one upload or save in flight at a time.
package session

import (
	"errors"
	"time"

	"resume-editor/pkg/models"
)

// State is the lifecycle state of an editing session
type State string

const (
	StateEmpty     State = "empty"     // no document parsed yet
	StateUploading State = "uploading" // parse request in flight
	StateLoaded    State = "loaded"    // document present, nothing in flight
	StateSaving    State = "saving"    // regenerate request in flight
)

// Common session errors
var (
	ErrNotFound          = errors.New("session not found")
	ErrOperationInFlight = errors.New("an upload or save is already in flight for this session")
	ErrNoDocument        = errors.New("no resume document loaded")
)

// Session is one editing session. The document is always either absent or a
// fully formed ResumeDocument; every edit swaps in a complete replacement.
// Seq counts upload/save attempts so a response arriving after the session
// moved on (reset, delete) can be recognized as stale and discarded.
type Session struct {
	ID             string                 `json:"id"`
	State          State                  `json:"state"`
	Document       *models.ResumeDocument `json:"document,omitempty"`
	SourceFilename string                 `json:"source_filename,omitempty"`
	PreviewURL     string                 `json:"preview_url,omitempty"`
	LastError      string                 `json:"last_error,omitempty"`
	Seq            uint64                 `json:"seq"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Busy reports whether an upload or save is currently in flight
func (s *Session) Busy() bool {
	return s.State == StateUploading || s.State == StateSaving
}

// Clone returns a copy of the session with a deep-copied document
func (s *Session) Clone() *Session {
	out := *s
	if s.Document != nil {
		out.Document = s.Document.Clone()
	}
	return &out
}

// Response converts the session into its API representation
func (s *Session) Response() *models.SessionResponse {
	return &models.SessionResponse{
		ID:             s.ID,
		State:          string(s.State),
		Document:       s.Document,
		SourceFilename: s.SourceFilename,
		PreviewURL:     s.PreviewURL,
		LastError:      s.LastError,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
