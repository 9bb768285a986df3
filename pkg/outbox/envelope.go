package outbox

import (
	"encoding/json"
	"fmt"
	"time"
)

const envelopeVersion = 1

// ActorRef identifies the user whose request produced the event.
type ActorRef struct {
	UserID uint `json:"userId"`
}

// PayloadEnvelope is the JSON stored in outbox_events.payload and published
// verbatim as the Pub/Sub message body.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// DecodeEnvelope reads a stored payload back, rejecting anything without an
// event id or with a version this build does not understand.
func DecodeEnvelope(payload json.RawMessage) (PayloadEnvelope, error) {
	var env PayloadEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return PayloadEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	switch {
	case env.EventID == "":
		return PayloadEnvelope{}, fmt.Errorf("envelope has no event id")
	case env.Version < 1 || env.Version > envelopeVersion:
		return PayloadEnvelope{}, fmt.Errorf("unsupported envelope version %d", env.Version)
	}
	return env, nil
}
