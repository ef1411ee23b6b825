package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/okian/folio/internal/domain/profile"
	"github.com/okian/folio/pkg/metrics"
)

// FileStore keeps the document in a single JSON file.
//
// Each read and each write of the file is serialized within the process, so a
// Load never sees a half-written file from a concurrent Save here. Nothing
// spans a Load/Save pair: concurrent read-modify-write callers race and the
// last Save wins. Writes truncate and rewrite the file in place; a crash in
// the middle of a write can leave it corrupt.
type FileStore struct {
	path   string
	mode   os.FileMode
	indent string

	mu sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		mode:   defaultFileMode,
		indent: defaultIndent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*profile.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
	}
	metrics.UpdateDocumentBytes(len(data))

	doc, err := profile.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, s.path, err)
	}
	return doc, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, doc *profile.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrIO)
	}

	// Encode before touching the file so an encoding failure leaves it intact.
	var buf bytes.Buffer
	if err := profile.Encode(&buf, doc, s.indent); err != nil {
		return fmt.Errorf("%w: encode: %w", ErrIO, err)
	}

	s.mu.Lock()
	err := os.WriteFile(s.path, buf.Bytes(), s.mode)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, s.path, err)
	}
	metrics.UpdateDocumentBytes(buf.Len())
	return nil
}
