package http

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-admin/internal/resources"
)

// Seeder fills an empty resource. *records.Store satisfies it.
type Seeder interface {
	Seed(ctx context.Context, resource string, seeds []map[string]any) (int, error)
}

// MountPages serves every page with its envelope and required fields. When
// seeder is non-nil, empty resources receive the page seeds.
func (api *API) MountPages(ctx context.Context, seeder Seeder, pages []resources.Page) error {
	for _, page := range pages {
		api.AddResource(Resource{
			Name:     page.Resource,
			Envelope: page.Envelope,
			Key:      page.EnvelopeKey,
			Required: page.Required,
		})
		if seeder == nil {
			continue
		}
		seeds := make([]map[string]any, len(page.Seeds))
		for i, seed := range page.Seeds {
			seeds[i] = map[string]any(seed)
		}
		if _, err := seeder.Seed(ctx, page.Resource, seeds); err != nil {
			return fmt.Errorf("http: seed %s: %w", page.Resource, err)
		}
	}
	return nil
}
