package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/briefboard/briefboard-server/internal/audit"
	"github.com/briefboard/briefboard-server/internal/database"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
)

// TriageService applies status transitions and deletions to offers on behalf
// of brief owners. Every operation runs its authorization check and its write
// inside one transaction, so ownership cannot change between the two. Bulk
// operations never partially apply: an unauthorized or missing id aborts the
// batch with zero mutations.
type TriageService struct {
	db       database.Txer
	offers   repository.OfferRepository
	activity *ActivityService
}

func NewTriageService(db database.Txer, offers repository.OfferRepository, activity *ActivityService) *TriageService {
	return &TriageService{
		db:       db,
		offers:   offers,
		activity: activity,
	}
}

func (s *TriageService) SetStatus(ctx context.Context, accountID, offerID int64, status model.OfferStatus) (*model.Offer, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("status", "must be one of new, shortlist, rejected")
	}

	var updated *model.Offer
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		offers := s.offers.WithTx(tx)

		outcome, err := NewGuard(offers).AuthorizeSingle(ctx, offerID, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		if denied := denialFor(outcome); denied != nil {
			if outcome == AuthzForbidden {
				auditDenied(ctx, accountID, "status", offerID)
			}
			return denied
		}

		updated, err = offers.SetStatus(ctx, offerID, status)
		if err != nil {
			return apperrors.Database(err)
		}
		if updated == nil {
			return apperrors.NotFound("Offer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &accountID, model.EventOfferStatusChanged, map[string]any{
		"offerId": offerID,
		"status":  string(status),
	})

	return updated, nil
}

func (s *TriageService) SetStatusBulk(ctx context.Context, accountID int64, offerIDs []int64, status model.OfferStatus) ([]model.Offer, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("status", "must be one of new, shortlist, rejected")
	}
	if len(offerIDs) == 0 {
		return nil, apperrors.ValidationError("offerIds must not be empty")
	}
	ids := dedupeIDs(offerIDs)

	var updated []model.Offer
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		offers := s.offers.WithTx(tx)

		ok, err := NewGuard(offers).AuthorizeBulk(ctx, ids, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		if !ok {
			auditBulkRejected(ctx, accountID, "status", ids)
			return apperrors.Forbidden("One or more offers do not belong to you")
		}

		updated, err = offers.SetStatusMany(ctx, ids, status)
		if err != nil {
			return apperrors.Database(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("accountId", accountID).
		Int("count", len(updated)).
		Str("status", string(status)).
		Msg("bulk status change applied")

	s.activity.Record(ctx, &accountID, model.EventOfferStatusChanged, map[string]any{
		"offerIds": ids,
		"status":   string(status),
		"count":    len(updated),
	})

	return updated, nil
}

func (s *TriageService) DeleteOne(ctx context.Context, accountID, offerID int64) error {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		offers := s.offers.WithTx(tx)

		outcome, err := NewGuard(offers).AuthorizeSingle(ctx, offerID, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		if denied := denialFor(outcome); denied != nil {
			if outcome == AuthzForbidden {
				auditDenied(ctx, accountID, "delete", offerID)
			}
			return denied
		}

		if err := offers.Delete(ctx, offerID); err != nil {
			return apperrors.Database(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, &accountID, model.EventOfferDeleted, map[string]any{
		"offerId": offerID,
	})

	return nil
}

func (s *TriageService) DeleteBulk(ctx context.Context, accountID int64, offerIDs []int64) (int64, error) {
	if len(offerIDs) == 0 {
		return 0, apperrors.ValidationError("offerIds must not be empty")
	}
	ids := dedupeIDs(offerIDs)

	var deleted int64
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		offers := s.offers.WithTx(tx)

		ok, err := NewGuard(offers).AuthorizeBulk(ctx, ids, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		if !ok {
			auditBulkRejected(ctx, accountID, "delete", ids)
			return apperrors.Forbidden("One or more offers do not belong to you")
		}

		deleted, err = offers.DeleteMany(ctx, ids)
		if err != nil {
			return apperrors.Database(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("accountId", accountID).
		Int64("count", deleted).
		Msg("bulk delete applied")

	s.activity.Record(ctx, &accountID, model.EventOfferDeleted, map[string]any{
		"offerIds": ids,
		"count":    deleted,
	})

	return deleted, nil
}

func auditDenied(ctx context.Context, accountID int64, action string, offerID int64) {
	audit.Log(ctx, audit.Event{
		Type:      audit.EventAuthzDenied,
		AccountID: accountID,
		Details:   map[string]interface{}{"action": action, "offerId": offerID},
	})
}

func auditBulkRejected(ctx context.Context, accountID int64, action string, ids []int64) {
	audit.Log(ctx, audit.Event{
		Type:      audit.EventBulkRejected,
		AccountID: accountID,
		Details:   map[string]interface{}{"action": action, "offerIds": ids},
	})
}

func denialFor(outcome AuthzOutcome) error {
	switch outcome {
	case AuthzNotFound:
		return apperrors.NotFound("Offer")
	case AuthzForbidden:
		return apperrors.Forbidden("Offer does not belong to you")
	}
	return nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
