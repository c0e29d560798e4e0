package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-editor/internal/config"
	"resume-editor/internal/document"
	"resume-editor/internal/logging"
	"resume-editor/internal/parser"
	"resume-editor/pkg/models"
)

// ParserClient is the slice of the backend client the manager needs
type ParserClient interface {
	Upload(ctx context.Context, filename string, file io.Reader) (*parser.UploadResult, error)
	Update(ctx context.Context, doc *models.ResumeDocument) (string, error)
}

// Manager orchestrates editing sessions: it owns every state transition,
// forwards uploads and saves to the parser backend, and applies document
// edits through the immutable binder. All transitions are serialized so a
// session is never observed mid-edit.
type Manager struct {
	store  Store
	parser ParserClient
	logger logging.Logger

	ttl             time.Duration
	cleanupInterval time.Duration

	mu            sync.Mutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewManager creates a session manager on the given store and backend client
func NewManager(cfg *config.Config, store Store, parserClient ParserClient) *Manager {
	return &Manager{
		store:           store,
		parser:          parserClient,
		logger:          logging.GetGlobalLogger(),
		ttl:             cfg.Sessions.TTL,
		cleanupInterval: cfg.Sessions.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
}

// Start launches the periodic cleanup of idle sessions
func (m *Manager) Start() {
	m.cleanupTicker = time.NewTicker(m.cleanupInterval)
	go func() {
		for {
			select {
			case <-m.cleanupTicker.C:
				if err := m.store.Cleanup(context.Background(), m.ttl); err != nil {
					m.logger.Error("Session cleanup failed", map[string]interface{}{"error": err.Error()})
				}
			case <-m.stopCleanup:
				m.cleanupTicker.Stop()
				return
			}
		}
	}()
}

// Stop halts the cleanup routine and closes the store
func (m *Manager) Stop() error {
	if m.cleanupTicker != nil {
		close(m.stopCleanup)
	}
	return m.store.Close()
}

// Create starts a new, empty editing session
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		State:     StateEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.logger.Info("Editing session created", map[string]interface{}{"session_id": sess.ID})
	return sess, nil
}

// Get returns the current state of a session
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// List returns all live sessions (for monitoring)
func (m *Manager) List(ctx context.Context) ([]*Session, error) {
	return m.store.List(ctx)
}

// Delete discards a session entirely
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Reset returns a session to the empty state, discarding the document and
// preview. The sequence bump orphans any response still in flight.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.Seq++
	sess.State = StateEmpty
	sess.Document = nil
	sess.SourceFilename = ""
	sess.PreviewURL = ""
	sess.LastError = ""
	sess.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.Info("Editing session reset", map[string]interface{}{"session_id": id})
	return sess, nil
}

// Upload sends a resume file to the parser backend and installs the parsed
// document on success. A failed upload leaves any previously loaded document
// untouched and records a user-facing error on the session.
func (m *Manager) Upload(ctx context.Context, id, filename string, file io.Reader) (*Session, error) {
	seq, err := m.begin(ctx, id, StateUploading, false)
	if err != nil {
		return nil, err
	}

	result, uploadErr := m.parser.Upload(ctx, filename, file)

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Seq != seq {
		m.logger.Warn("Discarding stale parse response", map[string]interface{}{
			"session_id": id,
			"seq":        seq,
			"latest_seq": sess.Seq,
		})
		return sess, nil
	}

	if uploadErr != nil {
		sess.State = stateForDocument(sess.Document)
		sess.LastError = userMessage(uploadErr)
		sess.UpdatedAt = time.Now()
		if putErr := m.store.Put(ctx, sess); putErr != nil {
			return nil, putErr
		}

		m.logger.Error("Resume upload failed", map[string]interface{}{
			"session_id": id,
			"error":      uploadErr.Error(),
		})
		return sess, uploadErr
	}

	sess.Document = result.Parsed
	sess.SourceFilename = result.Filename
	if sess.SourceFilename == "" {
		sess.SourceFilename = filename
	}
	sess.PreviewURL = result.PDFURL
	sess.State = StateLoaded
	sess.LastError = ""
	sess.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.Info("Resume parsed and loaded", map[string]interface{}{
		"session_id": id,
		"filename":   sess.SourceFilename,
	})
	return sess, nil
}

// Save sends the full current document to the parser backend to regenerate
// the preview. On success the preview URL gets a t=<timestamp> query
// parameter so cached renderings are invalidated even when the resource name
// does not change. A failed save never rolls back edits.
func (m *Manager) Save(ctx context.Context, id string) (*Session, error) {
	seq, err := m.begin(ctx, id, StateSaving, true)
	if err != nil {
		return nil, err
	}

	snapshot, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pdfURL, saveErr := m.parser.Update(ctx, snapshot.Document)

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Seq != seq {
		m.logger.Warn("Discarding stale save response", map[string]interface{}{
			"session_id": id,
			"seq":        seq,
			"latest_seq": sess.Seq,
		})
		return sess, nil
	}

	sess.State = StateLoaded
	sess.UpdatedAt = time.Now()

	if saveErr != nil {
		sess.LastError = userMessage(saveErr)
		if putErr := m.store.Put(ctx, sess); putErr != nil {
			return nil, putErr
		}

		m.logger.Error("Resume save failed", map[string]interface{}{
			"session_id": id,
			"error":      saveErr.Error(),
		})
		return sess, saveErr
	}

	sess.PreviewURL = cacheBust(pdfURL, time.Now())
	sess.LastError = ""

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.Info("Resume preview regenerated", map[string]interface{}{
		"session_id":  id,
		"preview_url": sess.PreviewURL,
	})
	return sess, nil
}

// SetField binds a single text field of the session's document
func (m *Manager) SetField(ctx context.Context, id, field, value string) (*Session, error) {
	return m.mutate(ctx, id, func(doc *models.ResumeDocument) *models.ResumeDocument {
		return document.SetField(doc, field, value)
	})
}

// SetBulkFieldText reparses a comma-separated bulk field edit and binds the
// resulting list. The split keeps the documented lossy behavior: every comma
// splits, nothing is trimmed.
func (m *Manager) SetBulkFieldText(ctx context.Context, id, field, text string) (*Session, error) {
	return m.mutate(ctx, id, func(doc *models.ResumeDocument) *models.ResumeDocument {
		return document.SetBulkField(doc, field, document.SplitBulk(text))
	})
}

// AppendEntry appends a default-valued entry to a list section
func (m *Manager) AppendEntry(ctx context.Context, id, field string) (*Session, error) {
	return m.mutate(ctx, id, func(doc *models.ResumeDocument) *models.ResumeDocument {
		return document.AppendEntry(doc, field)
	})
}

// RemoveEntryAt deletes one entry from a list section
func (m *Manager) RemoveEntryAt(ctx context.Context, id, field string, index int) (*Session, error) {
	return m.mutate(ctx, id, func(doc *models.ResumeDocument) *models.ResumeDocument {
		return document.RemoveEntryAt(doc, field, index)
	})
}

// UpdateEntryField replaces one subfield of one list entry
func (m *Manager) UpdateEntryField(ctx context.Context, id, field string, index int, subfield, value string) (*Session, error) {
	return m.mutate(ctx, id, func(doc *models.ResumeDocument) *models.ResumeDocument {
		return document.UpdateEntryField(doc, field, index, subfield, value)
	})
}

// begin claims the next sequence number and moves the session into an
// in-flight state. It fails if another upload or save is already pending.
func (m *Manager) begin(ctx context.Context, id string, next State, requireDocument bool) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if sess.Busy() {
		return 0, ErrOperationInFlight
	}
	if requireDocument && sess.Document == nil {
		return 0, ErrNoDocument
	}

	sess.Seq++
	sess.State = next
	sess.LastError = ""
	sess.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, sess); err != nil {
		return 0, err
	}

	return sess.Seq, nil
}

// mutate applies an edit to the session's document as a whole-document
// replacement. Edits require a loaded document and are rejected while an
// upload or save is pending.
func (m *Manager) mutate(ctx context.Context, id string, apply func(*models.ResumeDocument) *models.ResumeDocument) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Busy() {
		return nil, ErrOperationInFlight
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}

	sess.Document = apply(sess.Document)
	sess.LastError = ""
	sess.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// stateForDocument picks the resting state after a failed operation
func stateForDocument(doc *models.ResumeDocument) State {
	if doc == nil {
		return StateEmpty
	}
	return StateLoaded
}

// cacheBust appends (or replaces) a t=<unix-timestamp> query parameter
func cacheBust(rawURL string, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	q.Set("t", strconv.FormatInt(now.Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// userMessage converts a backend failure into the single human-readable
// string surfaced on the session. Nothing from the taxonomy propagates past
// this boundary.
func userMessage(err error) string {
	var transportErr *parser.TransportError
	var serverErr *parser.ServerError
	var parseFailure *parser.ParseFailure

	switch {
	case errors.As(err, &transportErr):
		return "Could not reach the resume parser. Please try again."
	case errors.As(err, &serverErr):
		return fmt.Sprintf("The resume parser failed with status %d.", serverErr.StatusCode)
	case errors.As(err, &parseFailure):
		return "The resume could not be parsed: " + parseFailure.Reason
	default:
		return "Unexpected error: " + err.Error()
	}
}
