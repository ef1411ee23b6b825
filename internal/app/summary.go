package service

import (
	"context"

	"github.com/okian/folio/internal/domain/profile"
	"github.com/okian/folio/pkg/logger"
	"github.com/okian/folio/pkg/metrics"
)

// Summary counts the entries of the well-known profile lists.
type Summary struct {
	Name        string
	SocialLinks int
	Skills      int
	Experience  int
	Projects    int
	Expertise   int
}

// Summary loads the document and counts its lists through the typed views.
// A list with an unexpected shape counts as zero and is logged; it never
// fails the call. The counts are published as metrics gauges.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	if name, ok := doc.Personal[profile.KeyName].(string); ok {
		sum.Name = name
	}
	sum.SocialLinks = s.count(ctx, profile.KeySocialLinks, func() (int, error) {
		v, err := profile.SocialLinks(doc.Personal)
		return len(v), err
	})
	sum.Skills = s.count(ctx, profile.KeySkills, func() (int, error) {
		v, err := profile.Skills(doc.Professional)
		return len(v), err
	})
	sum.Experience = s.count(ctx, profile.KeyExperience, func() (int, error) {
		v, err := profile.Experience(doc.Professional)
		return len(v), err
	})
	sum.Projects = s.count(ctx, profile.KeyProjects, func() (int, error) {
		v, err := profile.Projects(doc.Professional)
		return len(v), err
	})
	sum.Expertise = s.count(ctx, profile.KeyExpertise, func() (int, error) {
		v, err := profile.Expertise(doc.Professional)
		return len(v), err
	})
	return sum, nil
}

func (s *Service) count(ctx context.Context, list string, view func() (int, error)) int {
	n, err := view()
	if err != nil {
		s.logger.Warn(ctx, "profile list has unexpected shape", logger.String("list", list), logger.Error(err))
		n = 0
	}
	metrics.UpdateProfileItems(list, n)
	return n
}
