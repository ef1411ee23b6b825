package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrViewShape reports a section value that does not fit its typed view.
var ErrViewShape = errors.New("unexpected value shape")

// SocialLink is one entry of personal.socialLinks.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// AvailabilityInfo is personal.availability.
type AvailabilityInfo struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"responseTime"`
}

// Role is one entry of professional.experience.
type Role struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Project is one entry of professional.projects.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Link        string   `json:"link"`
	GitHub      string   `json:"github"`
}

// ExpertiseArea is one entry of professional.expertise.
type ExpertiseArea struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Views decode a single key on demand. An absent key or JSON null yields the
// zero value and no error.

// SocialLinks returns personal.socialLinks.
func SocialLinks(s Section) ([]SocialLink, error) { return viewOf[[]SocialLink](s, KeySocialLinks) }

// Availability returns personal.availability.
func Availability(s Section) (AvailabilityInfo, error) {
	return viewOf[AvailabilityInfo](s, KeyAvailability)
}

// Skills returns professional.skills.
func Skills(s Section) ([]string, error) { return viewOf[[]string](s, KeySkills) }

// Experience returns professional.experience.
func Experience(s Section) ([]Role, error) { return viewOf[[]Role](s, KeyExperience) }

// Projects returns professional.projects.
func Projects(s Section) ([]Project, error) { return viewOf[[]Project](s, KeyProjects) }

// Expertise returns professional.expertise.
func Expertise(s Section) ([]ExpertiseArea, error) { return viewOf[[]ExpertiseArea](s, KeyExpertise) }

func viewOf[T any](s Section, key string) (T, error) {
	var out T
	v, ok := s.Lookup(key)
	if !ok || v == nil {
		return out, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrViewShape, key, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrViewShape, key, err)
	}
	return out, nil
}
