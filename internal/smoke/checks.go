package smoke

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"

	"github.com/okian/folio/internal/domain/profile"
)

// check is one named probe against the service.
type check struct {
	name string
	run  func(ctx context.Context, c *Client) error
}

// listRoutes maps each computed list route to its professional key.
var listRoutes = map[string]string{ //nolint:gochecknoglobals // static route table
	"/api/skills":     profile.KeySkills,
	"/api/experience": profile.KeyExperience,
	"/api/projects":   profile.KeyProjects,
	"/api/expertise":  profile.KeyExpertise,
}

// ReadRoutes are the GET routes exercised by the load phase.
var ReadRoutes = []string{ //nolint:gochecknoglobals // static route table
	"/api/profile", "/api/personal", "/api/professional",
	"/api/skills", "/api/experience", "/api/projects", "/api/expertise",
	"/api/health",
}

func checks(write bool) []check {
	out := []check{
		{"health", checkHealth},
		{"profile shape", checkProfileShape},
		{"sections match profile", checkSections},
		{"lists match profile", checkLists},
		{"personal field lookup", checkPersonalField},
		{"unknown route lists routes", checkNotFound},
	}
	if write {
		out = append(out, check{"empty merge is a no-op", checkEmptyMerge})
	}
	return out
}

func checkHealth(ctx context.Context, c *Client) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := getJSON(ctx, c, "/api/health", &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrCheckFailed, body.Status)
	}
	return nil
}

func checkProfileShape(ctx context.Context, c *Client) error {
	var doc map[string]any
	if err := getJSON(ctx, c, "/api/profile", &doc); err != nil {
		return err
	}
	if len(doc) != 2 {
		return fmt.Errorf("%w: profile has %d top-level keys", ErrCheckFailed, len(doc))
	}
	for _, name := range []profile.SectionName{profile.Personal, profile.Professional} {
		if _, ok := doc[string(name)].(map[string]any); !ok {
			return fmt.Errorf("%w: %s is not an object", ErrCheckFailed, name)
		}
	}
	return nil
}

func checkSections(ctx context.Context, c *Client) error {
	doc, err := getProfile(ctx, c)
	if err != nil {
		return err
	}
	for _, name := range []profile.SectionName{profile.Personal, profile.Professional} {
		var section map[string]any
		if err := getJSON(ctx, c, "/api/"+string(name), &section); err != nil {
			return err
		}
		if !reflect.DeepEqual(section, doc[string(name)]) {
			return fmt.Errorf("%w: /api/%s differs from profile.%s", ErrCheckFailed, name, name)
		}
	}
	return nil
}

func checkLists(ctx context.Context, c *Client) error {
	doc, err := getProfile(ctx, c)
	if err != nil {
		return err
	}
	professional, _ := doc[string(profile.Professional)].(map[string]any)
	for path, key := range listRoutes {
		var list any
		if err := getJSON(ctx, c, path, &list); err != nil {
			return err
		}
		if !reflect.DeepEqual(list, professional[key]) {
			return fmt.Errorf("%w: %s differs from profile.professional.%s", ErrCheckFailed, path, key)
		}
	}
	return nil
}

func checkPersonalField(ctx context.Context, c *Client) error {
	doc, err := getProfile(ctx, c)
	if err != nil {
		return err
	}
	personal, _ := doc[string(profile.Personal)].(map[string]any)
	if len(personal) > 0 {
		keys := make([]string, 0, len(personal))
		for k := range personal {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		key := keys[0]

		var got map[string]any
		if err := getJSON(ctx, c, "/api/personal/"+url.PathEscape(key), &got); err != nil {
			return err
		}
		if len(got) != 1 || !reflect.DeepEqual(got[key], personal[key]) {
			return fmt.Errorf("%w: /api/personal/%s differs from profile.personal.%s", ErrCheckFailed, key, key)
		}
	}

	resp, err := c.Get(ctx, "/api/personal/__smoke_missing__")
	if err != nil {
		return err
	}
	if resp.Status != http.StatusNotFound {
		return fmt.Errorf("%w: missing field answered %d", ErrCheckFailed, resp.Status)
	}
	return nil
}

func checkNotFound(ctx context.Context, c *Client) error {
	resp, err := c.Get(ctx, "/api/__smoke_unknown__")
	if err != nil {
		return err
	}
	if resp.Status != http.StatusNotFound {
		return fmt.Errorf("%w: unknown route answered %d", ErrCheckFailed, resp.Status)
	}
	var body struct {
		Routes []string `json:"routes"`
	}
	if err := resp.Decode(&body); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}
	if len(body.Routes) == 0 {
		return fmt.Errorf("%w: unknown route response lists no routes", ErrCheckFailed)
	}
	return nil
}

func checkEmptyMerge(ctx context.Context, c *Client) error {
	before, err := getProfile(ctx, c)
	if err != nil {
		return err
	}
	resp, err := c.Put(ctx, "/api/personal", map[string]any{})
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("%w: empty merge answered %d", ErrCheckFailed, resp.Status)
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := resp.Decode(&body); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}
	if !reflect.DeepEqual(body.Data, before[string(profile.Personal)]) {
		return fmt.Errorf("%w: empty merge changed the personal section", ErrCheckFailed)
	}
	return nil
}

func getProfile(ctx context.Context, c *Client) (map[string]any, error) {
	var doc map[string]any
	if err := getJSON(ctx, c, "/api/profile", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func getJSON(ctx context.Context, c *Client, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("%w: GET %s answered %d", ErrCheckFailed, path, resp.Status)
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrCheckFailed, path, err)
	}
	return nil
}
