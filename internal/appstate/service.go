// Package appstate assembles the per-route view model consumed by the SSR
// renderer and the /api/state endpoint. Each builder composes datastore
// queries and view projections into a single JSON-serializable object and
// tolerates missing records rather than failing.
package appstate

import (
	"context"
	"strings"
	"time"

	"github.com/alegrify/go-services/internal/datastore"
)

// Connection proposal types, shared with the connect API.
const (
	ConnectionTypeClient  = "connect2client"
	ConnectionTypeConsult = "connect2consult"
)

// PageViewTracker records a page view on the analytics sink.
type PageViewTracker interface {
	TrackPageView(ctx context.Context, path string)
}

// Options carry the request context into the dispatcher.
type Options struct {
	UserID           string
	Route            string
	Locale           string
	Locals           map[string]string
	DisableAnalytics bool
}

// Service is the state assembly dispatcher. Stateless between calls except
// for the injected cache.
type Service struct {
	store     *datastore.Store
	analytics PageViewTracker
	cache     *Cache
	now       func() time.Time
}

func NewService(store *datastore.Store, analytics PageViewTracker, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Service{
		store:     store,
		analytics: analytics,
		cache:     cache,
		now:       time.Now,
	}
}

// CreateAppState builds the state object for a route. Routes that need an
// authenticated user fall through to the bare locale object when UserID is
// absent; unknown routes do the same.
func (s *Service) CreateAppState(ctx context.Context, opts Options) map[string]any {
	if opts.Route == "" {
		return map[string]any{}
	}

	rp := ParseRoute(opts.Route)

	if !opts.DisableAnalytics && s.analytics != nil && !strings.Contains(rp.Path, "sockjs-node") {
		s.analytics.TrackPageView(ctx, "/"+rp.Path)
	}

	switch rp.Kind {
	case RouteCrisis:
		return s.crisisState(ctx, opts)
	case RouteCorpConfirm:
		return s.corpConfirmState(ctx, rp)
	case RouteCorp:
		return s.corpState(ctx, rp, opts)
	}

	if opts.UserID != "" {
		switch rp.Kind {
		case RouteDashboard, RouteGraphMood:
			return s.dashboardState(ctx, opts)
		case RouteProfile:
			return s.profileState(ctx, opts)
		case RouteDayInReview:
			return s.dayInReviewState(ctx, opts)
		}
	}

	return map[string]any{"locale": opts.Locale}
}
