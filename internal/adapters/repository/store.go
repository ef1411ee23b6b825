// Package repository persists the profile document.
package repository

import (
	"context"

	"github.com/okian/folio/internal/domain/profile"
)

// Store provides whole-document read/write access to the profile.
type Store interface {
	// Load reads and parses the whole document.
	// Returns ErrIO when the backing medium cannot be read and ErrParse when
	// its content is not a valid document.
	Load(ctx context.Context) (*profile.Document, error)

	// Save replaces the whole stored document. Returns ErrIO on failure.
	Save(ctx context.Context, doc *profile.Document) error
}
