// Package service provides the profile use cases that back the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/okian/folio/internal/adapters/repository"
	"github.com/okian/folio/internal/domain/profile"
	"github.com/okian/folio/pkg/logger"
	"github.com/okian/folio/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	// ErrFieldNotFound is returned when a requested section key is absent.
	ErrFieldNotFound = errors.New("field not found")
	// ErrLoad wraps any failure to read the document.
	ErrLoad = errors.New("load profile failed")
	// ErrSave wraps any failure to write the document.
	ErrSave = errors.New("save profile failed")
)

const nanosecondsPerMillisecond = 1e6

// Service implements the profile reads and merge-updates.
//
// It holds no state besides its Store. Every call loads the document afresh;
// merges are load, merge, save with nothing serializing two merges against
// each other, so the last save wins.
type Service struct {
	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service on top of store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Check loads the document once. Startup treats a failure as fatal.
func (s *Service) Check(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// Profile returns the whole document.
func (s *Service) Profile(ctx context.Context) (*profile.Document, error) {
	return s.load(ctx)
}

// Section returns one section of the document.
func (s *Service) Section(ctx context.Context, name profile.SectionName) (profile.Section, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Section(name), nil
}

// Personal returns the personal section.
func (s *Service) Personal(ctx context.Context) (profile.Section, error) {
	return s.Section(ctx, profile.Personal)
}

// Professional returns the professional section.
func (s *Service) Professional(ctx context.Context) (profile.Section, error) {
	return s.Section(ctx, profile.Professional)
}

// Field returns the value stored under key in the named section.
// A key holding JSON null is present; only an absent key is ErrFieldNotFound.
func (s *Service) Field(ctx context.Context, name profile.SectionName, key string) (any, error) {
	section, err := s.Section(ctx, name)
	if err != nil {
		return nil, err
	}
	v, ok := section.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, name, key)
	}
	return v, nil
}

// PersonalField returns personal[key].
func (s *Service) PersonalField(ctx context.Context, key string) (any, error) {
	return s.Field(ctx, profile.Personal, key)
}

// ProfessionalField returns professional[key].
func (s *Service) ProfessionalField(ctx context.Context, key string) (any, error) {
	return s.Field(ctx, profile.Professional, key)
}

// List returns professional[key] as stored, or nil when it is absent.
func (s *Service) List(ctx context.Context, key string) (any, error) {
	section, err := s.Section(ctx, profile.Professional)
	if err != nil {
		return nil, err
	}
	v, _ := section.Lookup(key)
	return v, nil
}

// Skills returns professional.skills.
func (s *Service) Skills(ctx context.Context) (any, error) { return s.List(ctx, profile.KeySkills) }

// Experience returns professional.experience.
func (s *Service) Experience(ctx context.Context) (any, error) {
	return s.List(ctx, profile.KeyExperience)
}

// Projects returns professional.projects.
func (s *Service) Projects(ctx context.Context) (any, error) { return s.List(ctx, profile.KeyProjects) }

// Expertise returns professional.expertise.
func (s *Service) Expertise(ctx context.Context) (any, error) {
	return s.List(ctx, profile.KeyExpertise)
}

// Merge shallow-merges patch into the named section, saves the whole
// document and returns the merged section.
func (s *Service) Merge(ctx context.Context, name profile.SectionName, patch profile.Section) (profile.Section, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	merged := doc.Merge(name, patch)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "profile section updated",
		logger.String("section", string(name)),
		logger.Int("keys", len(patch)))
	return merged, nil
}

// MergePersonal merges patch into the personal section.
func (s *Service) MergePersonal(ctx context.Context, patch profile.Section) (profile.Section, error) {
	return s.Merge(ctx, profile.Personal, patch)
}

// MergeProfessional merges patch into the professional section.
func (s *Service) MergeProfessional(ctx context.Context, patch profile.Section) (profile.Section, error) {
	return s.Merge(ctx, profile.Professional, patch)
}

func (s *Service) load(ctx context.Context) (*profile.Document, error) {
	start := time.Now()
	doc, err := s.store.Load(ctx)
	metrics.RecordStoreOperation(metrics.OpLoad, storeResult(err), elapsedMs(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *profile.Document) error {
	start := time.Now()
	err := s.store.Save(ctx, doc)
	metrics.RecordStoreOperation(metrics.OpSave, storeResult(err), elapsedMs(start))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

func storeResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, repository.ErrParse):
		return metrics.ResultParse
	case errors.Is(err, repository.ErrIO):
		return metrics.ResultIOError
	default:
		return metrics.ResultOther
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
}
