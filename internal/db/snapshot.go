package db

import (
	"encoding/json"
	"fmt"

	"github.com/tgienger/hbt/internal/models"
)

// Snapshot keys. Each value is the full JSON encoding, overwritten on every save.
const (
	GoalsKey      = "habit-coach-goals"
	TranscriptKey = "habit-coach-messages"
)

// LoadGoals reads the persisted goal collection. ok is false when nothing was saved yet.
func (db *DB) LoadGoals() (models.GoalCollection, bool, error) {
	var goals models.GoalCollection
	ok, err := db.loadJSON(GoalsKey, &goals)
	if err != nil || !ok {
		return models.GoalCollection{}, ok, err
	}
	if goals == nil {
		goals = models.GoalCollection{}
	}
	return goals, true, nil
}

// SaveGoals overwrites the persisted goal collection
func (db *DB) SaveGoals(goals models.GoalCollection) error {
	if goals == nil {
		goals = models.GoalCollection{}
	}
	return db.saveJSON(GoalsKey, goals)
}

// LoadTranscript reads the persisted coaching transcript
func (db *DB) LoadTranscript() ([]models.Message, bool, error) {
	var msgs []models.Message
	ok, err := db.loadJSON(TranscriptKey, &msgs)
	if err != nil || !ok {
		return []models.Message{}, ok, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, true, nil
}

// SaveTranscript overwrites the persisted coaching transcript
func (db *DB) SaveTranscript(msgs []models.Message) error {
	if msgs == nil {
		msgs = []models.Message{}
	}
	return db.saveJSON(TranscriptKey, msgs)
}

func (db *DB) loadJSON(key string, v any) (bool, error) {
	raw, ok, err := db.GetSetting(key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (db *DB) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := db.SetSetting(key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
