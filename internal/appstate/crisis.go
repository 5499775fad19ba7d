package appstate

import (
	"context"

	"github.com/alegrify/go-services/internal/datastore"
)

const (
	cacheKeyCrisisResources = "crisisResources"
	cacheKeyCountries       = "countries"
)

// crisisState lists crisis resources and the countries they cover. Needs no
// authentication. Both lists are cached; the country list is reduced to the
// handful of fields the front end renders.
func (s *Service) crisisState(ctx context.Context, opts Options) map[string]any {
	appState := map[string]any{}

	var resources []datastore.Record
	if cached, ok := s.cache.Get(cacheKeyCrisisResources); ok {
		resources = cached.([]datastore.Record)
	} else {
		resources = s.store.FindMultiple(ctx, "CrisisResource", nil, nil)
		if resources == nil {
			resources = []datastore.Record{}
		}
		s.cache.Set(cacheKeyCrisisResources, resources)
	}

	countries := []map[string]any{}
	if cached, ok := s.cache.Get(cacheKeyCountries); ok {
		countries = cached.([]map[string]any)
	} else {
		seen := map[string]bool{}
		for _, resource := range resources {
			countryID := resource.StringField("country")
			if countryID == "" || seen[countryID] {
				continue
			}
			seen[countryID] = true
			country := s.store.FindOne(ctx, "Country", map[string]any{"_id": countryID}, nil)
			if country == nil {
				continue
			}
			countries = append(countries, map[string]any{
				"_id":  country["_id"],
				"tags": country["tags"],
				"name": country["name"],
				"flag": country["flag"],
				"cca2": country["cca2"],
			})
		}
		s.cache.Set(cacheKeyCountries, countries)
	}

	appState["countries"] = countries
	appState["crisisResources"] = resources

	if code := opts.Locals["country"]; code != "" {
		for _, country := range countries {
			if cca2, _ := country["cca2"].(string); cca2 == code {
				appState["myCountry"] = country["_id"]
			}
		}
	}

	return appState
}
