package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/storage"
	"github.com/alegrify/go-services/internal/viewfilter"
	"github.com/alegrify/go-services/pkg/logger"
	"github.com/alegrify/go-services/pkg/middleware"
)

// RegisterUserRoutes lets an authenticated user patch their own record and
// upload an avatar. Updates are restricted to the allow-listed fields; the
// response carries the self projection, never the raw record.
func RegisterUserRoutes(r *gin.Engine, store *datastore.Store, uploads *storage.MinIOStorage, ver middleware.Verifier) {
	r.PATCH("/api/user", middleware.RequireAuth(ver), func(c *gin.Context) {
		userID := middleware.UserID(c)

		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := datastore.Record{}
		for _, field := range viewfilter.UpdatableUserFields {
			if value, ok := body[field]; ok && value != nil {
				update[field] = value
			}
		}

		updated, err := store.Update(c.Request.Context(), "User", userID, update)
		if err != nil {
			logger.LogError(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": viewfilter.OutputToSelf(updated)})
	})

	r.POST("/api/user/avatar", middleware.RequireAuth(ver), func(c *gin.Context) {
		userID := middleware.UserID(c)

		if uploads == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
			return
		}

		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file missing"})
			return
		}
		src, err := file.Open()
		if err != nil {
			logger.LogError(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		defer src.Close()

		key := fmt.Sprintf("avatar_%s_%d_%d", userID, time.Now().UnixMilli(), rand.Intn(9999999))
		avatar, err := uploads.UploadFile(c.Request.Context(), key, src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			logger.LogError(err)
			c.Status(http.StatusInternalServerError)
			return
		}

		if _, err := store.Update(c.Request.Context(), "User", userID, datastore.Record{"avatar": avatar}); err != nil {
			logger.LogError(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"avatar": avatar})
	})
}
