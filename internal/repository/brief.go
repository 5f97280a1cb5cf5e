package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/briefboard/briefboard-server/internal/model"
)

// BriefRepository handles project brief data operations. Briefs are never
// updated or deleted in the current design.
type BriefRepository interface {
	Create(ctx context.Context, params model.CreateBriefParams) (*model.Brief, error)
	FindByID(ctx context.Context, id int64) (*model.Brief, error)
	FindByToken(ctx context.Context, token string) (*model.Brief, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.BriefWithOfferCount, error)
	Count(ctx context.Context) (int, error)
	WithTx(tx *sqlx.Tx) BriefRepository
}

type briefRepo struct {
	db sqlxDB
}

func NewBriefRepository(db *sqlx.DB) BriefRepository {
	return &briefRepo{db: db}
}

func (r *briefRepo) WithTx(tx *sqlx.Tx) BriefRepository {
	return &briefRepo{db: tx}
}

func (r *briefRepo) Create(ctx context.Context, params model.CreateBriefParams) (*model.Brief, error) {
	var brief model.Brief
	err := r.db.GetContext(ctx, &brief, `
		INSERT INTO briefs (owner_id, title, description, expected_result, deadline, budget, criteria, template, public_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`,
		params.OwnerID, params.Title, params.Description, params.ExpectedResult,
		params.Deadline, params.Budget, pq.Array(params.Criteria), params.Template,
		params.PublicToken,
	)
	if err != nil {
		return nil, err
	}
	return &brief, nil
}

func (r *briefRepo) FindByID(ctx context.Context, id int64) (*model.Brief, error) {
	var brief model.Brief
	err := r.db.GetContext(ctx, &brief, `
		SELECT * FROM briefs WHERE id = $1
	`, id)
	return HandleNotFound(&brief, err)
}

func (r *briefRepo) FindByToken(ctx context.Context, token string) (*model.Brief, error) {
	var brief model.Brief
	err := r.db.GetContext(ctx, &brief, `
		SELECT * FROM briefs WHERE public_token = $1
	`, token)
	return HandleNotFound(&brief, err)
}

// ListByOwner returns the owner's briefs annotated with offer counts,
// newest first. The count is computed in one join query, never stored.
func (r *briefRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.BriefWithOfferCount, error) {
	var briefs []model.BriefWithOfferCount
	err := r.db.SelectContext(ctx, &briefs, `
		SELECT b.*, COUNT(o.id) AS offer_count
		FROM briefs b
		LEFT JOIN offers o ON o.brief_id = b.id
		WHERE b.owner_id = $1
		GROUP BY b.id
		ORDER BY b.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

func (r *briefRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM briefs`)
	return count, err
}
