package model

import (
	"time"
)

// Offer is a freelancer proposal submitted anonymously against a brief's
// public token. Status is always forced to "new" at creation and only the
// brief owner may change or delete it afterwards.
type Offer struct {
	ID             int64       `db:"id" json:"id"`
	BriefID        int64       `db:"brief_id" json:"projectId"`
	FreelancerName string      `db:"freelancer_name" json:"freelancerName"`
	Contact        string      `db:"contact" json:"contact"`
	Portfolio      *string     `db:"portfolio" json:"portfolio,omitempty"`
	Experience     *string     `db:"experience" json:"experience,omitempty"`
	Skills         *string     `db:"skills" json:"skills,omitempty"`
	Approach       string      `db:"approach" json:"approach"`
	Deadline       string      `db:"deadline" json:"deadline"`
	Price          string      `db:"price" json:"price"`
	Guarantees     *string     `db:"guarantees" json:"guarantees,omitempty"`
	Risks          *string     `db:"risks" json:"risks,omitempty"`
	Status         OfferStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
}

// OfferWithBrief is an offer joined with its parent brief's owner, used by
// the authorization guard.
type OfferWithBrief struct {
	Offer
	BriefOwnerID int64 `db:"brief_owner_id"`
}

// OfferOwner is one row of the offers-to-brief-owners join used by bulk
// authorization.
type OfferOwner struct {
	OfferID int64 `db:"offer_id"`
	OwnerID int64 `db:"owner_id"`
}

type CreateOfferParams struct {
	BriefID        int64
	FreelancerName string
	Contact        string
	Portfolio      *string
	Experience     *string
	Skills         *string
	Approach       string
	Deadline       string
	Price          string
	Guarantees     *string
	Risks          *string
}
