package appstate

import (
	"context"

	"github.com/alegrify/go-services/internal/datastore"
	"github.com/alegrify/go-services/internal/viewfilter"
)

// dashboardState assembles the logged-in landing page: recent moods with
// their reflections, status lines, the work week schedule, open connection
// proposals and upcoming corporate events annotated with the viewer's own
// vote.
func (s *Service) dashboardState(ctx context.Context, opts Options) map[string]any {
	userID := opts.UserID
	appState := map[string]any{}

	moods := s.store.FindMultiple(ctx, "Mood", map[string]any{"user_id": userID}, &datastore.FindOptions{Limit: 20})

	user := viewfilter.OutputToSelf(s.store.FindOne(ctx, "User", map[string]any{"_id": userID}, &datastore.FindOptions{
		Populate: map[string]string{"corporates": "Corporate"},
		MyUserID: userID,
	}))
	if user == nil {
		return map[string]any{}
	}
	appState["user"] = user

	for _, mood := range moods {
		reflections := s.store.FindMultiple(ctx, "MoodReflection", map[string]any{"mood_id": mood.ID()}, nil)
		if reflections == nil {
			reflections = []datastore.Record{}
		}
		mood["reflections"] = reflections
	}

	previousMoodScores := make([]map[string]any, 0, len(moods))
	thoughts := make([]map[string]any, 0, len(moods))
	for _, mood := range moods {
		previousMoodScores = append(previousMoodScores, map[string]any{"my_mood": mood["my_mood"]})
		thoughts = append(thoughts, map[string]any{
			"id":            mood.ID(),
			"thought":       mood["thought"],
			"thought_event": mood["thought_event"],
			"my_mood":       mood["my_mood"],
			"my_mood_type":  mood["my_mood_type"],
			"created_at":    mood["created_at"],
			"reflections":   mood["reflections"],
		})
	}
	appState["previousMoodScores"] = previousMoodScores
	appState["thoughts"] = thoughts

	statuses := s.store.FindMultiple(ctx, "UserStatus", map[string]any{"user_id": userID}, nil)
	userStatuses := make([]string, 0, len(statuses))
	for _, status := range statuses {
		userStatuses = append(userStatuses, status.StringField("text"))
	}
	appState["userStatuses"] = userStatuses

	weekScheduleWork := s.store.FindOne(ctx, "WeekSchedule", map[string]any{"user_id": userID, "type": "work"}, nil)
	appState["latestWeekSchedules"] = map[string]any{
		"work": weekScheduleWork["oh_utc"],
	}

	proposals := s.store.FindMultiple(ctx, "ConnectionProposal", map[string]any{
		"to":   userID,
		"type": ConnectionTypeClient,
	}, nil)
	connectionProposals := make([]map[string]any, 0, len(proposals))
	for _, proposal := range proposals {
		connectionProposals = append(connectionProposals, map[string]any{
			"_id":        proposal["_id"],
			"created_at": proposal["created_at"],
			"updated_at": proposal["updated_at"],
			"from":       proposal["from"],
		})
	}

	corporates, _ := user["corporates"].([]datastore.Record)
	var corporateEvents []map[string]any
	for _, corporate := range corporates {
		events := s.store.FindMultiple(ctx, "CorporateEvent", map[string]any{"corporate": corporate.ID()}, &datastore.FindOptions{Limit: 3})
		for _, event := range events {
			corporateEvents = append(corporateEvents, map[string]any{
				"_id":        event["_id"],
				"created_at": event["created_at"],
				"updated_at": event["updated_at"],
				"corporate":  event["corporate"],
				"what":       event["what"],
			})
		}
	}
	if corporateEvents != nil {
		for _, event := range corporateEvents {
			eventID, _ := event["_id"].(string)
			vote := s.store.FindOne(ctx, "UserCorporateEvent", map[string]any{
				"corporateEventId": eventID,
				"userId":           userID,
			}, nil)
			if vote != nil {
				event["moodType"] = vote["moodType"]
			}
		}
		appState["corporateEvents"] = corporateEvents
	}

	for i, proposal := range connectionProposals {
		from, _ := proposal["from"].(string)
		proposer := viewfilter.OutputToClient(s.store.FindOne(ctx, "User", map[string]any{"_id": from}, nil))
		merged := map[string]any{}
		for k, v := range proposer {
			merged[k] = v
		}
		for k, v := range proposal {
			merged[k] = v
		}
		connectionProposals[i] = merged
	}
	appState["connectionProposals"] = connectionProposals

	appState["locale"] = opts.Locale
	if locale := user.StringField("locale"); locale != "" {
		appState["locale"] = locale
	}
	return appState
}
