// Package analytics maintains named event counters on top of the datastore
// goal records, with an optional Redis mirror for cheap real-time reads.
// Every event is tracked four times: overall, per ISO week, per day and per
// minute, so the admin dashboard can query any granularity.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/pkg/logger"
	"github.com/alegrify/go-services/pkg/metrics"
)

const keyPrefix = "ANALYTICS"

// Tracker increments goal counters. Tracking is fire-and-forget: failures
// are logged and never surface to the request path.
type Tracker struct {
	store    *datastore.Store
	mirror   *redis.Client
	disabled bool
	now      func() time.Time
}

func NewTracker(store *datastore.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// WithMirror adds a Redis client that receives the same increments via INCR.
func (t *Tracker) WithMirror(client *redis.Client) *Tracker {
	t.mirror = client
	return t
}

// Disable turns the tracker into a no-op (used in tests and by the
// alegrify-disable-analytics request header).
func (t *Tracker) Disable() *Tracker {
	t.disabled = true
	return t
}

// TrackPageView records a page view for a normalized route path.
func (t *Tracker) TrackPageView(ctx context.Context, path string) {
	metrics.PageViews.Inc()
	t.Track(ctx, "PAGE_VIEW_"+path)
}

// TrackRegistration records a completed signup.
func (t *Tracker) TrackRegistration(ctx context.Context) {
	t.Track(ctx, "REGISTRATION")
}

// TrackServerGoal records a named server-side goal (e.g. ADD_MOOD).
func (t *Tracker) TrackServerGoal(ctx context.Context, goal string) {
	t.Track(ctx, goal)
}

// TrackFrontEndGoal records a goal reported by the web client.
func (t *Tracker) TrackFrontEndGoal(ctx context.Context, key string) {
	t.Track(ctx, "FRONT_END_"+key)
}

// TrackAppGoal records a goal reported by the mobile app wrapper.
func (t *Tracker) TrackAppGoal(ctx context.Context, key string) {
	t.Track(ctx, "APP_"+key)
}

// Track bumps the overall, weekly, daily and minute counters for a key.
func (t *Tracker) Track(ctx context.Context, key string) {
	if t.disabled {
		return
	}
	for _, counter := range t.counterKeys(key, t.now()) {
		if err := t.store.TrackGoal(ctx, counter); err != nil {
			logger.LogError(err)
		}
		if t.mirror != nil {
			if err := t.mirror.Incr(ctx, counter).Err(); err != nil {
				logger.LogError(fmt.Errorf("analytics mirror: %w", err))
			}
		}
	}
}

func (t *Tracker) counterKeys(key string, at time.Time) []string {
	base := keyPrefix + "_" + key
	return []string{
		base + "_OVERALL",
		base + "_" + weekStamp(at),
		base + "_" + at.Format("2006-01-02"),
		base + "_" + at.Format("2006-01-02T15:04"),
	}
}

// Count reads a counter back. Period is one of "all", "week", "day" or
// "minute"; minus shifts that many periods into the past.
func (t *Tracker) Count(ctx context.Context, key, period string, minus int) int64 {
	base := keyPrefix + "_" + key
	at := t.now()
	switch period {
	case "", "all":
		return t.store.GoalCount(ctx, base+"_OVERALL")
	case "week":
		return t.store.GoalCount(ctx, base+"_"+weekStamp(at.AddDate(0, 0, -7*minus)))
	case "day":
		return t.store.GoalCount(ctx, base+"_"+at.AddDate(0, 0, -minus).Format("2006-01-02"))
	case "minute":
		return t.store.GoalCount(ctx, base+"_"+at.Add(-time.Duration(minus)*time.Minute).Format("2006-01-02T15:04"))
	}
	return 0
}

func weekStamp(at time.Time) string {
	year, week := at.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}
