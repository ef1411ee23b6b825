package repository

import "os"

const (
	defaultFileMode os.FileMode = 0o644
	defaultIndent               = "  "
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits used when the file is created.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithIndent sets the indentation used when writing the document.
// An empty string writes compact JSON.
func WithIndent(indent string) Option {
	return func(s *FileStore) {
		s.indent = indent
	}
}
