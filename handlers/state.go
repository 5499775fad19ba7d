package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alegrify/go-services/internal/appstate"
	"github.com/alegrify/go-services/pkg/middleware"
)

// RegisterStateRoutes exposes the app state builder as a JSON endpoint. The
// SSR renderer and the single-page client both consume it; the route path
// after /api/state decides which builder runs.
func RegisterStateRoutes(r *gin.Engine, svc *appstate.Service, ver middleware.Verifier) {
	getState := func(c *gin.Context) {
		route := strings.TrimPrefix(c.Param("route"), "/")

		locale := c.Query("locale")
		if locale == "" {
			locale = c.GetHeader("Accept-Language")
		}

		state := svc.CreateAppState(c.Request.Context(), appstate.Options{
			UserID: middleware.UserID(c),
			Route:  route,
			Locale: locale,
			Locals: map[string]string{
				"country": c.GetHeader("CF-IPCountry"),
			},
			DisableAnalytics: c.GetHeader("alegrify-disable-analytics") != "",
		})

		c.JSON(http.StatusOK, gin.H{"state": state})
	}

	r.GET("/api/state", middleware.OptionalAuth(ver), getState)
	r.GET("/api/state/*route", middleware.OptionalAuth(ver), getState)
}
