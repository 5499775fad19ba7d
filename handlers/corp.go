package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/viewfilter"
	"github.com/alegrify/go-services/pkg/logger"
	"github.com/alegrify/go-services/pkg/middleware"
)

// MoodTypes are the vote options on a corporate event.
var MoodTypes = []string{"HAPPY", "SCARED", "ANGRY", "SAD"}

func validMoodType(moodType string) bool {
	for _, t := range MoodTypes {
		if t == moodType {
			return true
		}
	}
	return false
}

// RegisterCorpRoutes exposes corporate event management: admins create
// events, members vote a mood on them. Tallies are moved with atomic field
// increments so concurrent votes cannot lose updates.
func RegisterCorpRoutes(r *gin.Engine, store *datastore.Store, ver middleware.Verifier) {
	r.POST("/api/corp/:corporateId/event", middleware.RequireAuth(ver), func(c *gin.Context) {
		userID := middleware.UserID(c)
		corporateID := c.Param("corporateId")

		corporate := store.FindOne(c.Request.Context(), "Corporate", map[string]any{"_id": corporateID}, nil)
		if viewfilter.AccessFor(userID, corporate) != viewfilter.AccessAdmin {
			c.JSON(http.StatusForbidden, gin.H{})
			return
		}

		var body struct {
			What string `json:"what"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		moods := map[string]any{}
		for _, t := range MoodTypes {
			moods[t] = int64(0)
		}
		event := datastore.Record{
			"corporate": corporateID,
			"what":      body.What,
			"moods":     moods,
		}
		corpEventID := store.Save(c.Request.Context(), "CorporateEvent", event)
		if corpEventID == "" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"corpEventId": corpEventID})
	})

	r.POST("/api/corp/:corporateId/event/:eventId/mood", middleware.RequireAuth(ver), func(c *gin.Context) {
		userID := middleware.UserID(c)
		corporateID := c.Param("corporateId")
		eventID := c.Param("eventId")

		corporate := store.FindOne(c.Request.Context(), "Corporate", map[string]any{"_id": corporateID}, nil)
		if viewfilter.AccessFor(userID, corporate) == viewfilter.AccessNone {
			c.JSON(http.StatusForbidden, gin.H{})
			return
		}

		var body struct {
			MoodType string `json:"moodType"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || !validMoodType(body.MoodType) {
			c.JSON(http.StatusConflict, gin.H{"moodType": "INVALID"})
			return
		}

		vote := store.FindOne(c.Request.Context(), "UserCorporateEvent", map[string]any{
			"corporateEventId": eventID,
			"userId":           userID,
		}, nil)

		if vote != nil {
			previous := vote.StringField("moodType")
			if previous != "" {
				if err := store.Increment(c.Request.Context(), "CorporateEvent", eventID, "moods."+previous, -1); err != nil {
					logger.LogError(err)
					c.Status(http.StatusInternalServerError)
					return
				}
			}
			if _, err := store.Update(c.Request.Context(), "UserCorporateEvent", vote.ID(), datastore.Record{"moodType": body.MoodType}); err != nil {
				logger.LogError(err)
				c.Status(http.StatusInternalServerError)
				return
			}
		} else {
			if id := store.Save(c.Request.Context(), "UserCorporateEvent", datastore.Record{
				"corporateEventId": eventID,
				"userId":           userID,
				"moodType":         body.MoodType,
			}); id == "" {
				c.Status(http.StatusInternalServerError)
				return
			}
		}

		if err := store.Increment(c.Request.Context(), "CorporateEvent", eventID, "moods."+body.MoodType, 1); err != nil {
			logger.LogError(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	})
}
