package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/alegrify/go-services/internal/analytics"
	"github.com/alegrify/go-services/internal/datastore"
)

func moodRouter(t *testing.T, store *datastore.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterMoodRoutes(r, store, analytics.NewTracker(store), tokenVerifier{})
	return r
}

func TestAddMood(t *testing.T) {
	store := newTestStore()
	r := moodRouter(t, store)

	w := doJSON(r, http.MethodPost, "/api/mood", "u1",
		`{"my_mood":7,"my_mood_type":"HAPPY","thought":"ship it","thought_event":"release"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "moodId")

	mood := store.FindOne(context.Background(), "Mood", map[string]any{"user_id": "u1"}, nil)
	require.NotNil(t, mood)
	require.Equal(t, float64(7), mood["my_mood"])
	require.Equal(t, "ship it", mood.StringField("thought"))

	// server goals recorded for the add and the mood type
	require.Equal(t, int64(1), store.GoalCount(context.Background(), "ANALYTICS_ADD_MOOD_OVERALL"))
	require.Equal(t, int64(1), store.GoalCount(context.Background(), "ANALYTICS_ADD_MOOD_HAPPY_OVERALL"))
}

func TestAddMoodValidation(t *testing.T) {
	r := moodRouter(t, newTestStore())

	w := doJSON(r, http.MethodPost, "/api/mood", "u1", `{"my_mood_type":"HAPPY"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "numeric")

	w = doJSON(r, http.MethodPost, "/api/mood", "u1", `{"my_mood":11}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "0 to 10")

	w = doJSON(r, http.MethodPost, "/api/mood", "u1", `{"my_mood":-1}`)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAddMoodSharesWithCorporates(t *testing.T) {
	store := newTestStore()
	r := moodRouter(t, store)

	w := doJSON(r, http.MethodPost, "/api/mood", "u1",
		`{"my_mood":4,"my_mood_type":"SAD","share_corporates":["corp1"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	shared := store.FindOne(context.Background(), "CorporateMood", map[string]any{"corporate": "corp1"}, nil)
	require.NotNil(t, shared)
	require.Equal(t, float64(4), shared["mood"])
	require.Equal(t, "SAD", shared.StringField("mood_type"))
	require.NotEmpty(t, shared.StringField("day"))
	// shares carry no user reference, corp aggregates stay anonymous
	_, hasUser := shared["user_id"]
	require.False(t, hasUser)
}

func TestAddReflection(t *testing.T) {
	store := newTestStore()
	r := moodRouter(t, store)

	moodID := store.Save(context.Background(), "Mood", datastore.Record{"user_id": "u1", "my_mood": float64(7)})

	w := doJSON(r, http.MethodPost, "/api/mood/"+moodID+"/reflection", "u1",
		`{"reflection":"it went fine","reliability":8}`)
	require.Equal(t, http.StatusOK, w.Code)

	reflection := store.FindOne(context.Background(), "MoodReflection", map[string]any{"mood_id": moodID}, nil)
	require.NotNil(t, reflection)
	require.Equal(t, "it went fine", reflection.StringField("reflection"))
	require.Equal(t, float64(8), reflection["reliability"])
}

func TestAddReflectionValidation(t *testing.T) {
	r := moodRouter(t, newTestStore())

	w := doJSON(r, http.MethodPost, "/api/mood/m1/reflection", "u1", `{"reliability":8}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "reflection")

	w = doJSON(r, http.MethodPost, "/api/mood/m1/reflection", "u1", `{"reflection":"hm"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "reliability")
}
