package appstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/viewfilter"
)

type trackerSpy struct {
	paths []string
}

func (t *trackerSpy) TrackPageView(ctx context.Context, path string) {
	t.paths = append(t.paths, path)
}

func newTestService(t *testing.T) (*Service, *datastore.Store, *trackerSpy) {
	t.Helper()
	store := datastore.NewStore(datastore.NewMemoryBackend(), viewfilter.NewRegistry())
	spy := &trackerSpy{}
	return NewService(store, spy, NewCache(0)), store, spy
}

func TestCreateAppStateEmptyRoute(t *testing.T) {
	svc, _, spy := newTestService(t)

	state := svc.CreateAppState(context.Background(), Options{Locale: "en"})
	require.Empty(t, state)
	require.Empty(t, spy.paths)
}

func TestCreateAppStateUnknownRoute(t *testing.T) {
	svc, _, _ := newTestService(t)

	state := svc.CreateAppState(context.Background(), Options{Route: "unknown-route", Locale: "en"})
	require.Equal(t, map[string]any{"locale": "en"}, state)
}

func TestCreateAppStateAuthGatedRouteWithoutUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	state := svc.CreateAppState(context.Background(), Options{Route: "dashboard", Locale: "nl"})
	require.Equal(t, map[string]any{"locale": "nl"}, state)
}

func TestCreateAppStateTracksPageView(t *testing.T) {
	svc, _, spy := newTestService(t)
	ctx := context.Background()

	svc.CreateAppState(ctx, Options{Route: "/dashboard/", Locale: "en"})
	require.Equal(t, []string{"/dashboard"}, spy.paths)

	svc.CreateAppState(ctx, Options{Route: "profile", Locale: "en", DisableAnalytics: true})
	require.Len(t, spy.paths, 1)

	svc.CreateAppState(ctx, Options{Route: "sockjs-node/123", Locale: "en"})
	require.Len(t, spy.paths, 1)
}

func TestCrisisStateWithoutUser(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	countryID := store.Save(ctx, "Country", datastore.Record{
		"name": "Belgium", "cca2": "BE", "flag": "🇧🇪", "tags": []any{"eu"},
	})
	store.Save(ctx, "CrisisResource", datastore.Record{
		"country": countryID, "name": "Zelfmoordlijn", "phone": "1813",
	})
	store.Save(ctx, "CrisisResource", datastore.Record{
		"country": countryID, "name": "Awel", "phone": "102",
	})

	state := svc.CreateAppState(ctx, Options{Route: "crisis"})

	resources, ok := state["crisisResources"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, resources, 2)

	countries, ok := state["countries"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, countries, 1)
	require.Equal(t, "Belgium", countries[0]["name"])
}

func TestCrisisStateMyCountry(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	countryID := store.Save(ctx, "Country", datastore.Record{"name": "Belgium", "cca2": "BE"})
	store.Save(ctx, "CrisisResource", datastore.Record{"country": countryID, "name": "Zelfmoordlijn"})

	state := svc.CreateAppState(ctx, Options{
		Route:  "crisis",
		Locals: map[string]string{"country": "BE"},
	})
	require.Equal(t, countryID, state["myCountry"])

	state = svc.CreateAppState(ctx, Options{
		Route:  "crisis",
		Locals: map[string]string{"country": "FR"},
	})
	_, present := state["myCountry"]
	require.False(t, present)
}

func TestCrisisStateUsesCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	countryID := store.Save(ctx, "Country", datastore.Record{"name": "Belgium", "cca2": "BE"})
	store.Save(ctx, "CrisisResource", datastore.Record{"country": countryID, "name": "Zelfmoordlijn"})

	first := svc.CreateAppState(ctx, Options{Route: "crisis"})
	require.Len(t, first["crisisResources"], 1)

	// new resources don't show up until the cache is busted
	store.Save(ctx, "CrisisResource", datastore.Record{"country": countryID, "name": "Awel"})
	second := svc.CreateAppState(ctx, Options{Route: "crisis"})
	require.Len(t, second["crisisResources"], 1)

	svc.cache.Bust()
	third := svc.CreateAppState(ctx, Options{Route: "crisis"})
	require.Len(t, third["crisisResources"], 2)
}

func TestDashboardStateMissingUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	state := svc.CreateAppState(context.Background(), Options{Route: "dashboard", UserID: "missing", Locale: "en"})
	require.Empty(t, state)
}

func TestDashboardState(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	userID := store.Save(ctx, "User", datastore.Record{
		"first_name": "Ada", "last_name": "Lovelace", "locale": "nl",
	})
	corpID := store.Save(ctx, "Corporate", datastore.Record{
		"name": "Acme", "employees": []any{userID},
	})
	_, err := store.Update(ctx, "User", userID, datastore.Record{"corporates": []any{corpID}})
	require.NoError(t, err)

	moodID := store.Save(ctx, "Mood", datastore.Record{
		"user_id": userID, "my_mood": float64(7), "my_mood_type": "HAPPY",
		"thought": "ship it", "thought_event": "release",
	})
	store.Save(ctx, "MoodReflection", datastore.Record{
		"mood_id": moodID, "reflection": "it went fine", "reliability": float64(8),
	})
	store.Save(ctx, "UserStatus", datastore.Record{"user_id": userID, "text": "feeling ok"})
	store.Save(ctx, "WeekSchedule", datastore.Record{"user_id": userID, "type": "work", "oh_utc": "9-17"})

	proposerID := store.Save(ctx, "User", datastore.Record{"first_name": "Eve", "last_name": "Consult"})
	store.Save(ctx, "ConnectionProposal", datastore.Record{
		"to": userID, "from": proposerID, "type": ConnectionTypeClient,
	})

	eventID := store.Save(ctx, "CorporateEvent", datastore.Record{
		"corporate": corpID, "what": "team yoga",
	})
	store.Save(ctx, "UserCorporateEvent", datastore.Record{
		"corporateEventId": eventID, "userId": userID, "moodType": "HAPPY",
	})

	state := svc.CreateAppState(ctx, Options{Route: "dashboard", UserID: userID, Locale: "en"})

	user, ok := state["user"].(datastore.Record)
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", user.StringField("full_name"))

	require.Equal(t, "nl", state["locale"], "user locale wins over request locale")

	thoughts, ok := state["thoughts"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, thoughts, 1)
	require.Equal(t, "ship it", thoughts[0]["thought"])
	reflections, ok := thoughts[0]["reflections"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, reflections, 1)

	scores, ok := state["previousMoodScores"].([]map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(7), scores[0]["my_mood"])

	require.Equal(t, []string{"feeling ok"}, state["userStatuses"])

	schedules, ok := state["latestWeekSchedules"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "9-17", schedules["work"])

	proposals, ok := state["connectionProposals"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, proposals, 1)
	require.Equal(t, "Eve Consult", proposals[0]["full_name"])
	require.Equal(t, proposerID, proposals[0]["from"])

	events, ok := state["corporateEvents"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, events, 1)
	require.Equal(t, "team yoga", events[0]["what"])
	require.Equal(t, "HAPPY", events[0]["moodType"])
}

func TestGraphMoodAliasesDashboard(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	userID := store.Save(ctx, "User", datastore.Record{"first_name": "Ada"})

	state := svc.CreateAppState(ctx, Options{Route: "graph/mood", UserID: userID, Locale: "en"})
	_, ok := state["previousMoodScores"]
	require.True(t, ok)
}

func TestProfileState(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	consultID := store.Save(ctx, "User", datastore.Record{"first_name": "Eve", "last_name": "Consult"})
	userID := store.Save(ctx, "User", datastore.Record{
		"first_name": "Ada", "consults": []any{consultID},
	})

	state := svc.CreateAppState(ctx, Options{Route: "profile", UserID: userID, Locale: "en"})

	user, ok := state["user"].(datastore.Record)
	require.True(t, ok)
	consults, ok := user["consults"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, consults, 1)
	require.Equal(t, "Eve Consult", consults[0].StringField("full_name"))
}

func TestDayInReviewState(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	userID := store.Save(ctx, "User", datastore.Record{"first_name": "Ada"})
	store.Save(ctx, "DayReview", datastore.Record{"user_id": userID, "dir_great": "sunshine"})

	state := svc.CreateAppState(ctx, Options{Route: "day-in-review", UserID: userID})
	reviews, ok := state["dayReviews"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, reviews, 1)
}

func TestCorpConfirmState(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	corpID := store.Save(ctx, "Corporate", datastore.Record{"name": "Acme", "address_city": "Ghent"})
	inviteID := store.Save(ctx, "CorporateInvite", datastore.Record{
		"corporateId": corpID, "userId": "u1",
	})

	state := svc.CreateAppState(ctx, Options{Route: "corp/confirm/" + inviteID})

	invitation, ok := state["invitation"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, corpID, invitation["corporateId"])
	require.Equal(t, "u1", invitation["userId"])

	corp, ok := state["corporate"].(datastore.Record)
	require.True(t, ok)
	require.Equal(t, "Acme", corp.StringField("name"))
}

func TestCorpConfirmStateUnknownInvite(t *testing.T) {
	svc, _, _ := newTestService(t)

	state := svc.CreateAppState(context.Background(), Options{Route: "corp/confirm/nope"})
	require.Empty(t, state)
}

func TestCorpStateEmployee(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	empID := store.Save(ctx, "User", datastore.Record{"first_name": "Eva"})
	corpID := store.Save(ctx, "Corporate", datastore.Record{
		"name": "Acme", "pricing_package": "premium",
		"admins": []any{"someone-else"}, "employees": []any{empID},
	})

	state := svc.CreateAppState(ctx, Options{Route: "corp/" + corpID, UserID: empID})

	corp, ok := state["corporate"].(datastore.Record)
	require.True(t, ok)
	require.Equal(t, "Acme", corp.StringField("name"))
	_, hasPricing := corp["pricing_package"]
	require.False(t, hasPricing)

	// employee view carries none of the admin enrichments
	_, hasMoods := state["corporateMoods"]
	require.False(t, hasMoods)
}

func TestCorpStateAdmin(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	adminID := store.Save(ctx, "User", datastore.Record{"first_name": "Boss"})
	inviteeID := store.Save(ctx, "User", datastore.Record{"first_name": "New", "last_name": "Hire"})
	corpID := store.Save(ctx, "Corporate", datastore.Record{
		"name": "Acme", "admins": []any{adminID}, "employees": []any{},
	})

	day := time.Now().Format("2006-01-02")
	store.Save(ctx, "CorporateMood", datastore.Record{
		"corporate": corpID, "mood": float64(6), "mood_type": "HAPPY", "day": day,
	})
	store.Save(ctx, "CorporateMood", datastore.Record{
		"corporate": corpID, "mood": float64(2), "mood_type": "HAPPY", "day": day,
	})
	store.Save(ctx, "CorporateEvent", datastore.Record{"corporate": corpID, "what": "offsite"})
	store.Save(ctx, "CorporateInvite", datastore.Record{"corporateId": corpID, "userId": inviteeID})

	state := svc.CreateAppState(ctx, Options{Route: "corp/" + corpID, UserID: adminID})

	corp, ok := state["corporate"].(datastore.Record)
	require.True(t, ok)
	_, hasAdmins := corp["admins"]
	require.True(t, hasAdmins)

	moods, ok := state["corporateMoods"].(map[string]map[string]int64)
	require.True(t, ok)
	require.Equal(t, int64(8), moods[day]["HAPPY"])

	timeline, ok := state["corpEventsTimeline"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, timeline, 1)

	invites, ok := state["corpPendingInvites"].([]datastore.Record)
	require.True(t, ok)
	require.Len(t, invites, 1)
	_, hasRawUserID := invites[0]["userId"]
	require.False(t, hasRawUserID)
	user, ok := invites[0]["user"].(datastore.Record)
	require.True(t, ok)
	require.Equal(t, "New Hire", user.StringField("full_name"))
}

func TestCorpStateStranger(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	corpID := store.Save(ctx, "Corporate", datastore.Record{
		"name": "Acme", "admins": []any{"a1"}, "employees": []any{"e1"},
	})

	state := svc.CreateAppState(ctx, Options{Route: "corp/" + corpID, UserID: "stranger"})

	corp, ok := state["corporate"].(datastore.Record)
	require.True(t, ok)
	require.Empty(t, corp, "no access yields an empty corporate object")
	_, hasMoods := state["corporateMoods"]
	require.False(t, hasMoods)
}
