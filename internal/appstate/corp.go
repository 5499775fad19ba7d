package appstate

import (
	"context"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/viewfilter"
)

// corpConfirmState resolves a corporate invitation link: the invite itself
// plus the employee view of the inviting corporate.
func (s *Service) corpConfirmState(ctx context.Context, rp RoutePoint) map[string]any {
	appState := map[string]any{}

	var invitationID string
	if len(rp.Segments) > 2 {
		invitationID = rp.Segments[2]
	}

	invitation := s.store.FindOne(ctx, "CorporateInvite", map[string]any{"_id": invitationID}, nil)
	if invitation == nil {
		return appState
	}

	corporateID := invitation.StringField("corporateId")
	appState["invitation"] = map[string]any{
		"corporateId": corporateID,
		"userId":      invitation["userId"],
	}
	appState["corporate"] = viewfilter.OutputToEmployee(
		s.store.FindOne(ctx, "Corporate", map[string]any{"_id": corporateID}, nil),
	)
	return appState
}

// corpState builds the corporate dashboard. Everyone gets the projection
// their membership allows; admins additionally get a 14-day mood aggregation,
// the events timeline and pending invites.
func (s *Service) corpState(ctx context.Context, rp RoutePoint, opts Options) map[string]any {
	appState := map[string]any{}
	corporateID := rp.SubRoute
	if corporateID == "" {
		return appState
	}

	corporate := s.store.FindOne(ctx, "Corporate", map[string]any{"_id": corporateID}, &datastore.FindOptions{
		Populate: map[string]string{
			"admins":    "User",
			"employees": "User",
		},
		MyUserID: opts.UserID,
	})
	if corporate == nil {
		return appState
	}

	appState["corporate"] = viewfilter.OutputToMe(opts.UserID)(corporate)

	if viewfilter.AccessFor(opts.UserID, corporate) != viewfilter.AccessAdmin {
		return appState
	}

	moodData := s.store.FindMultiple(ctx, "CorporateMood", map[string]any{"corporate": corporateID}, &datastore.FindOptions{
		CreatedAfter: s.now().AddDate(0, 0, -14),
	})
	corporateMoods := map[string]map[string]int64{}
	for _, item := range moodData {
		day := item.StringField("day")
		moodType := item.StringField("mood_type")
		if corporateMoods[day] == nil {
			corporateMoods[day] = map[string]int64{}
		}
		corporateMoods[day][moodType] += item.IntField("mood")
	}
	appState["corporateMoods"] = corporateMoods

	appState["corpEventsTimeline"] = s.store.FindMultiple(ctx, "CorporateEvent", map[string]any{"corporate": corporateID}, nil)

	pendingInvites := s.store.FindMultiple(ctx, "CorporateInvite", map[string]any{"corporateId": corporateID}, &datastore.FindOptions{
		Populate: map[string]string{"userId": "User"},
	})
	invites := make([]datastore.Record, 0, len(pendingInvites))
	for _, invite := range pendingInvites {
		if user, ok := invite["userId"].(datastore.Record); ok {
			invite["user"] = viewfilter.OutputToCorporate(user)
		}
		delete(invite, "userId")
		invites = append(invites, invite)
	}
	appState["corpPendingInvites"] = invites

	return appState
}
