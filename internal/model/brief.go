package model

import (
	"time"

	"github.com/lib/pq"
)

// Brief is a client-authored project specification. Ownership never changes
// after creation; every offer's authorization derives from OwnerID.
type Brief struct {
	ID             int64          `db:"id" json:"id"`
	OwnerID        int64          `db:"owner_id" json:"ownerId"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	ExpectedResult string         `db:"expected_result" json:"expectedResult"`
	Deadline       string         `db:"deadline" json:"deadline"`
	Budget         *string        `db:"budget" json:"budget,omitempty"`
	Criteria       pq.StringArray `db:"criteria" json:"criteria"`
	Template       BriefTemplate  `db:"template" json:"template"`
	Status         BriefStatus    `db:"status" json:"status"`
	PublicToken    string         `db:"public_token" json:"publicToken"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// BriefWithOfferCount annotates a brief with its offer count. The count is
// computed by the store, never persisted.
type BriefWithOfferCount struct {
	Brief
	OfferCount int `db:"offer_count" json:"offerCount"`
}

type CreateBriefParams struct {
	OwnerID        int64
	Title          string
	Description    string
	ExpectedResult string
	Deadline       string
	Budget         *string
	Criteria       []string
	Template       BriefTemplate
	PublicToken    string
}
