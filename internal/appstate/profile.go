package appstate

import (
	"context"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/viewfilter"
)

// profileState shows the user their own record with connected consultants
// resolved inline.
func (s *Service) profileState(ctx context.Context, opts Options) map[string]any {
	appState := map[string]any{}

	user := viewfilter.OutputToSelf(s.store.FindOne(ctx, "User", map[string]any{"_id": opts.UserID}, &datastore.FindOptions{
		Populate: map[string]string{"consults": "User"},
	}))
	if user == nil {
		return map[string]any{}
	}
	appState["user"] = user

	appState["locale"] = opts.Locale
	if locale := user.StringField("locale"); locale != "" {
		appState["locale"] = locale
	}
	return appState
}

func (s *Service) dayInReviewState(ctx context.Context, opts Options) map[string]any {
	dayReviews := s.store.FindMultiple(ctx, "DayReview", map[string]any{"user_id": opts.UserID}, nil)
	if dayReviews == nil {
		dayReviews = []datastore.Record{}
	}
	return map[string]any{"dayReviews": dayReviews}
}
