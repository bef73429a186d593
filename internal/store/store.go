package store

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"syscall"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/models"
)

// Store owns the in-memory document and serializes every read-modify-write
// against it. Mutations are applied to a copy which replaces the live
// document only after it has been persisted.
type Store struct {
	backend  Backend
	log      *logger.Logger
	attempts int
	backoff  time.Duration

	mu  sync.RWMutex
	doc *models.Document
}

type Option func(*Store)

// WithRetry bounds how often a failed write is retried before it is reported.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Store) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		log:      logger.Nop(),
		attempts: 3,
		backoff:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the stored document, seeding it on first run. When the stored
// bytes cannot be parsed they are preserved through the backend, a fresh
// seeded document takes their place, and a CORRUPT_STORE error is returned
// alongside the usable document.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		doc := models.Seed()
		if err := s.persist(ctx, doc); err != nil {
			return nil, err
		}
		s.doc = doc
		s.log.Info(ctx, "store seeded with default catalog")
		return doc.Clone(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeIO, err, "read document")
	}

	doc, migrated, notes, decodeErr := Decode(body)
	if decodeErr != nil {
		return s.recoverCorrupt(ctx, body, decodeErr)
	}

	for _, n := range notes {
		s.log.Warn(s.log.WithField(ctx, "migration", n), "document value defaulted on load")
	}
	if migrated {
		if err := s.persist(ctx, doc); err != nil {
			return nil, err
		}
		s.log.Info(s.log.WithField(ctx, "schema_version", models.SchemaVersion), "document upgraded")
	}
	s.doc = doc
	return doc.Clone(), nil
}

func (s *Store) recoverCorrupt(ctx context.Context, body []byte, cause error) (*models.Document, error) {
	where, err := s.backend.Preserve(ctx, body)
	if err != nil {
		// Without a preserved copy the corrupt data must stay where it is.
		return nil, errs.Wrap(errs.CodeIO, err, "preserve unreadable document")
	}

	ctx = s.log.WithField(ctx, "preserved_at", where)
	s.log.Error(ctx, "document unreadable, starting from seed data", cause)

	doc := models.Seed()
	if err := s.persist(ctx, doc); err != nil {
		return nil, err
	}
	s.doc = doc
	return doc.Clone(), errs.Wrap(errs.CodeCorruptStore, cause, "document unreadable").
		WithDetails(map[string]string{"preserved_at": where})
}

// Save replaces the whole document.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Clone()
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Update runs fn against a copy of the document and persists the result.
// If fn or the write fails the live document is left exactly as it was.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return errs.New(errs.CodeInternal, "store not loaded")
	}
	work := s.doc.Clone()
	if err := fn(work); err != nil {
		return err
	}
	if err := s.persist(ctx, work); err != nil {
		return err
	}
	s.doc = work
	return nil
}

// View gives fn read access to the live document. fn must not retain or
// modify it.
func (s *Store) View(fn func(doc *models.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		fn(models.NewDocument())
		return
	}
	fn(s.doc)
}

// Snapshot returns a deep copy of the live document.
func (s *Store) Snapshot() *models.Document {
	var out *models.Document
	s.View(func(doc *models.Document) { out = doc.Clone() })
	return out
}

func (s *Store) persist(ctx context.Context, doc *models.Document) error {
	doc.SchemaVersion = models.SchemaVersion
	body, err := Encode(doc)
	if err != nil {
		return errs.Wrap(errs.CodeInternal, err, "encode document")
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.backend.Write(ctx, body)
		if lastErr == nil {
			return nil
		}
		if isPermanent(lastErr) || attempt == s.attempts {
			break
		}
		s.log.Warn(s.log.WithFields(ctx, map[string]any{
			"attempt": attempt,
			"error":   lastErr.Error(),
		}), "document write failed, retrying")

		select {
		case <-ctx.Done():
			return errs.Wrap(errs.CodeIO, ctx.Err(), "save document")
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	s.log.Error(ctx, "document write failed", lastErr)
	return errs.Wrap(errs.CodeIO, lastErr, "save document")
}

func isPermanent(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS) ||
		errors.Is(err, context.Canceled)
}
