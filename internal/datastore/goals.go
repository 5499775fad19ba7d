package datastore

import (
	"context"
	"fmt"
)

// goalCollection holds one counter record per goal name, keyed by "key".
const goalCollection = "StatGoal"

// TrackGoal bumps the named counter by one, creating it on first touch.
// Existing counters are bumped with the backend's atomic increment, so
// concurrent calls cannot lose updates.
func (s *Store) TrackGoal(ctx context.Context, goal string) error {
	current := s.FindOne(ctx, goalCollection, map[string]any{"key": goal}, nil)
	if current != nil && current.ID() != "" {
		if err := s.backend.Increment(ctx, goalCollection, current.ID(), "value", 1); err != nil {
			return fmt.Errorf("track goal %s: %w", goal, err)
		}
		return nil
	}
	if id := s.Save(ctx, goalCollection, Record{"key": goal, "value": int64(1)}); id == "" {
		return fmt.Errorf("track goal %s: create failed", goal)
	}
	return nil
}

// GoalCount returns the current value of the named counter, 0 when the
// counter doesn't exist. Fail-soft like the rest of the read path.
func (s *Store) GoalCount(ctx context.Context, goal string) int64 {
	current := s.FindOne(ctx, goalCollection, map[string]any{"key": goal}, nil)
	if current == nil {
		return 0
	}
	return current.IntField("value")
}

// Increment exposes the backend's atomic field increment for callers that
// maintain tallies on their own records (e.g. event mood counts).
func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := s.backend.Increment(ctx, collection, id, field, delta); err != nil {
		return fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}
