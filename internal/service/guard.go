package service

import (
	"context"

	"github.com/briefboard/briefboard-server/internal/repository"
)

// AuthzOutcome classifies a single-offer authorization check. The guard never
// returns an error for "not owner"; the caller maps outcomes to denials.
type AuthzOutcome int

const (
	AuthzOk AuthzOutcome = iota
	AuthzNotFound
	AuthzForbidden
)

// Guard answers "may this account act on this offer set?". It is stateless:
// every check is a pure function of current store contents. Construct it over
// a transaction-scoped repository to close the window between check and write.
type Guard struct {
	offers repository.OfferRepository
}

func NewGuard(offers repository.OfferRepository) *Guard {
	return &Guard{offers: offers}
}

// AuthorizeSingle resolves the offer and its parent brief in one join query.
func (g *Guard) AuthorizeSingle(ctx context.Context, offerID, accountID int64) (AuthzOutcome, error) {
	offer, err := g.offers.FindWithBrief(ctx, offerID)
	if err != nil {
		return AuthzNotFound, err
	}
	if offer == nil {
		return AuthzNotFound, nil
	}
	if offer.BriefOwnerID != accountID {
		return AuthzForbidden, nil
	}
	return AuthzOk, nil
}

// AuthorizeBulk is all-or-nothing: every requested id must resolve to an
// existing offer, and every resolved offer's brief must be owned by
// accountID. A single missing or foreign id rejects the whole batch, so a
// caller can never probe mixed-ownership batches to learn about offers it
// does not own. Ids must already be deduplicated.
func (g *Guard) AuthorizeBulk(ctx context.Context, offerIDs []int64, accountID int64) (bool, error) {
	owners, err := g.offers.FindOwnersByIDs(ctx, offerIDs)
	if err != nil {
		return false, err
	}

	// A vanished id fails the whole batch.
	if len(owners) != len(offerIDs) {
		return false, nil
	}

	for _, o := range owners {
		if o.OwnerID != accountID {
			return false, nil
		}
	}
	return true, nil
}
