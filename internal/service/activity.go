package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
)

// ActivityService appends events to the activity log. Recording is
// best-effort: a failed append is logged and never fails the caller's
// operation.
type ActivityService struct {
	events repository.ActivityRepository
}

func NewActivityService(events repository.ActivityRepository) *ActivityService {
	return &ActivityService{events: events}
}

// Record appends one event. actorID is nil for anonymous actions.
func (s *ActivityService) Record(ctx context.Context, actorID *int64, eventType model.EventType, metadata map[string]any) {
	var raw []byte
	if metadata != nil {
		var err error
		raw, err = json.Marshal(metadata)
		if err != nil {
			log.Error().Err(err).Str("eventType", string(eventType)).Msg("marshal activity metadata")
			raw = nil
		}
	}

	if _, err := s.events.Create(ctx, model.CreateActivityEventParams{
		ActorID:   actorID,
		EventType: eventType,
		Metadata:  raw,
	}); err != nil {
		log.Error().Err(err).Str("eventType", string(eventType)).Msg("record activity event")
	}
}
