package ws

import (
	"encoding/json"

	"rpg_tracker/internal/service"
)

// Envelope is every frame on the wire.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// server → client
type AchievementsPayload struct {
	PlayerID     int64                     `json:"player_id"`
	Achievements []service.AchievementView `json:"achievements"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
