package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type EventType string

const (
	EventLogin              EventType = "login"
	EventBriefCreated       EventType = "brief_created"
	EventOfferSubmitted     EventType = "offer_submitted"
	EventOfferStatusChanged EventType = "offer_status_changed"
	EventOfferDeleted       EventType = "offer_deleted"
	EventAssistRequest      EventType = "assist_request"
)

// ActivityEvent is an append-only record of a notable action. ActorID is nil
// for anonymous actions such as public offer submission.
type ActivityEvent struct {
	ID        int64          `db:"id" json:"id"`
	ActorID   *int64         `db:"actor_id" json:"actorId,omitempty"`
	EventType EventType      `db:"event_type" json:"eventType"`
	Metadata  types.JSONText `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

type CreateActivityEventParams struct {
	ActorID   *int64
	EventType EventType
	Metadata  types.JSONText
}

type ActivityDayCount struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

type ActivityTypeCount struct {
	EventType EventType `db:"event_type" json:"eventType"`
	Count     int       `db:"count" json:"count"`
}
