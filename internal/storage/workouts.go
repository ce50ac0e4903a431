package storage

import (
	"context"
	"fmt"

	"github.com/claude/pinlog/internal/models"
)

// DefaultKey is the storage key the workout list lives under.
const DefaultKey = "workouts"

// WorkoutStore keeps the whole workout list as one JSON array under one key.
type WorkoutStore struct {
	kv  KV
	key string
}

// NewWorkoutStore returns a store over kv. An empty key means DefaultKey.
func NewWorkoutStore(kv KV, key string) *WorkoutStore {
	if key == "" {
		key = DefaultKey
	}
	return &WorkoutStore{kv: kv, key: key}
}

// Load returns the persisted list. A missing key yields an empty list; a
// blob that does not decode is returned as an error.
func (s *WorkoutStore) Load(ctx context.Context) ([]models.Workout, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	ws, err := models.DecodeWorkouts(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", s.key, err)
	}
	return ws, nil
}

// Save replaces the persisted list.
func (s *WorkoutStore) Save(ctx context.Context, ws []models.Workout) error {
	data, err := models.EncodeWorkouts(ws)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, data)
}

// Clear removes the key entirely.
func (s *WorkoutStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
