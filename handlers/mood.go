package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alegrify/go-services/internal/analytics"
	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/pkg/middleware"
)

// RegisterMoodRoutes covers mood logging and reflections. A mood can be
// shared with corporates the user belongs to; shares land as anonymous
// CorporateMood records the corp dashboard aggregates per day.
func RegisterMoodRoutes(r *gin.Engine, store *datastore.Store, tracker *analytics.Tracker, ver middleware.Verifier) {
	r.POST("/api/mood", middleware.RequireAuth(ver), func(c *gin.Context) {
		userID := middleware.UserID(c)

		var body struct {
			MyMood          *float64 `json:"my_mood"`
			MyMoodType      string   `json:"my_mood_type"`
			Thought         string   `json:"thought"`
			ThoughtEvent    string   `json:"thought_event"`
			ShareCorporates []string `json:"share_corporates"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.MyMood == nil {
			c.JSON(http.StatusConflict, gin.H{"my_mood": "Should be numeric value"})
			return
		}
		if *body.MyMood < 0 || *body.MyMood > 10 {
			c.JSON(http.StatusConflict, gin.H{"my_mood": "Should be value from 0 to 10"})
			return
		}

		moodID := store.Save(c.Request.Context(), "Mood", datastore.Record{
			"user_id":       userID,
			"my_mood":       *body.MyMood,
			"my_mood_type":  body.MyMoodType,
			"thought":       body.Thought,
			"thought_event": body.ThoughtEvent,
		})
		if moodID == "" {
			c.Status(http.StatusInternalServerError)
			return
		}

		if c.GetHeader("alegrify-disable-analytics") == "" {
			tracker.TrackServerGoal(c.Request.Context(), "ADD_MOOD")
			tracker.TrackServerGoal(c.Request.Context(), "ADD_MOOD_"+body.MyMoodType)
		}

		now := time.Now()
		for _, corporateID := range body.ShareCorporates {
			store.Save(c.Request.Context(), "CorporateMood", datastore.Record{
				"corporate": corporateID,
				"mood":      *body.MyMood,
				"mood_type": body.MyMoodType,
				"day":       now.Format("2006-01-02"),
				"time":      now.Format("15:04:05"),
			})
		}

		c.JSON(http.StatusOK, gin.H{"moodId": moodID})
	})

	r.POST("/api/mood/:moodId/reflection", middleware.RequireAuth(ver), func(c *gin.Context) {
		moodID := c.Param("moodId")

		var body struct {
			Reflection  string   `json:"reflection"`
			Reliability *float64 `json:"reliability"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Reflection == "" {
			c.JSON(http.StatusConflict, gin.H{"reflection": "Should be a string and cannot be empty"})
			return
		}
		if body.Reliability == nil {
			c.JSON(http.StatusConflict, gin.H{"reliability": "Should have a numeric value"})
			return
		}

		reflectionID := store.Save(c.Request.Context(), "MoodReflection", datastore.Record{
			"mood_id":     moodID,
			"reflection":  body.Reflection,
			"reliability": *body.Reliability,
		})
		if reflectionID == "" {
			c.Status(http.StatusInternalServerError)
			return
		}

		if c.GetHeader("alegrify-disable-analytics") == "" {
			tracker.TrackServerGoal(c.Request.Context(), "ADD_REFLECTION")
		}

		c.JSON(http.StatusOK, gin.H{"moodReflectionId": reflectionID})
	})
}
