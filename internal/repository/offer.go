package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/briefboard/briefboard-server/internal/model"
)

// OfferRepository handles offer data operations. The bulk variants execute a
// single statement over the whole id set so a triage batch is never left
// half-applied; an empty id set is a no-op, never an error.
type OfferRepository interface {
	Create(ctx context.Context, params model.CreateOfferParams) (*model.Offer, error)
	FindByID(ctx context.Context, id int64) (*model.Offer, error)
	FindWithBrief(ctx context.Context, id int64) (*model.OfferWithBrief, error)
	FindOwnersByIDs(ctx context.Context, ids []int64) ([]model.OfferOwner, error)
	ListByBrief(ctx context.Context, briefID int64) ([]model.Offer, error)
	SetStatus(ctx context.Context, id int64, status model.OfferStatus) (*model.Offer, error)
	SetStatusMany(ctx context.Context, ids []int64, status model.OfferStatus) ([]model.Offer, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context) (int, error)
	WithTx(tx *sqlx.Tx) OfferRepository
}

type offerRepo struct {
	db sqlxDB
}

func NewOfferRepository(db *sqlx.DB) OfferRepository {
	return &offerRepo{db: db}
}

func (r *offerRepo) WithTx(tx *sqlx.Tx) OfferRepository {
	return &offerRepo{db: tx}
}

// Create inserts a new offer. Status is not part of the insert list, so the
// store always produces "new" regardless of caller input.
func (r *offerRepo) Create(ctx context.Context, params model.CreateOfferParams) (*model.Offer, error) {
	var offer model.Offer
	err := r.db.GetContext(ctx, &offer, `
		INSERT INTO offers (brief_id, freelancer_name, contact, portfolio, experience, skills, approach, deadline, price, guarantees, risks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING *
	`,
		params.BriefID, params.FreelancerName, params.Contact, params.Portfolio,
		params.Experience, params.Skills, params.Approach, params.Deadline,
		params.Price, params.Guarantees, params.Risks,
	)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepo) FindByID(ctx context.Context, id int64) (*model.Offer, error) {
	var offer model.Offer
	err := r.db.GetContext(ctx, &offer, `
		SELECT * FROM offers WHERE id = $1
	`, id)
	return HandleNotFound(&offer, err)
}

func (r *offerRepo) FindWithBrief(ctx context.Context, id int64) (*model.OfferWithBrief, error) {
	var offer model.OfferWithBrief
	err := r.db.GetContext(ctx, &offer, `
		SELECT o.*, b.owner_id AS brief_owner_id
		FROM offers o
		JOIN briefs b ON b.id = o.brief_id
		WHERE o.id = $1
	`, id)
	return HandleNotFound(&offer, err)
}

// FindOwnersByIDs resolves each requested offer to its parent brief's owner
// in one join query. Ids that do not exist simply produce no row; the caller
// compares cardinalities.
func (r *offerRepo) FindOwnersByIDs(ctx context.Context, ids []int64) ([]model.OfferOwner, error) {
	if len(ids) == 0 {
		return []model.OfferOwner{}, nil
	}

	var owners []model.OfferOwner
	err := r.db.SelectContext(ctx, &owners, `
		SELECT o.id AS offer_id, b.owner_id
		FROM offers o
		JOIN briefs b ON b.id = o.brief_id
		WHERE o.id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *offerRepo) ListByBrief(ctx context.Context, briefID int64) ([]model.Offer, error) {
	var offers []model.Offer
	err := r.db.SelectContext(ctx, &offers, `
		SELECT * FROM offers
		WHERE brief_id = $1
		ORDER BY created_at DESC
	`, briefID)
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepo) SetStatus(ctx context.Context, id int64, status model.OfferStatus) (*model.Offer, error) {
	var offer model.Offer
	err := r.db.GetContext(ctx, &offer, `
		UPDATE offers SET status = $2
		WHERE id = $1
		RETURNING *
	`, id, status)
	return HandleNotFound(&offer, err)
}

func (r *offerRepo) SetStatusMany(ctx context.Context, ids []int64, status model.OfferStatus) ([]model.Offer, error) {
	if len(ids) == 0 {
		return []model.Offer{}, nil
	}

	var offers []model.Offer
	err := r.db.SelectContext(ctx, &offers, `
		UPDATE offers SET status = $2
		WHERE id = ANY($1)
		RETURNING *
	`, pq.Array(ids), status)
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}

func (r *offerRepo) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM offers WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *offerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM offers`)
	return count, err
}
