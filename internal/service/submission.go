package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
)

// SubmissionService handles the anonymous offer submission path. No identity
// is required; possession of a brief's public token is the only credential.
type SubmissionService struct {
	briefs   repository.BriefRepository
	offers   repository.OfferRepository
	activity *ActivityService
}

func NewSubmissionService(
	briefs repository.BriefRepository,
	offers repository.OfferRepository,
	activity *ActivityService,
) *SubmissionService {
	return &SubmissionService{
		briefs:   briefs,
		offers:   offers,
		activity: activity,
	}
}

// SubmitOfferInput deliberately carries no status field: a status-like value
// in the request payload is dropped at decode time, and the store forces
// "new" regardless.
type SubmitOfferInput struct {
	FreelancerName string  `json:"freelancerName"`
	Contact        string  `json:"contact"`
	Portfolio      *string `json:"portfolio"`
	Experience     *string `json:"experience"`
	Skills         *string `json:"skills"`
	Approach       string  `json:"approach"`
	Deadline       string  `json:"deadline"`
	Price          string  `json:"price"`
	Guarantees     *string `json:"guarantees"`
	Risks          *string `json:"risks"`
}

func (in *SubmitOfferInput) validate() error {
	if strings.TrimSpace(in.FreelancerName) == "" {
		return apperrors.MissingRequired("freelancerName")
	}
	if strings.TrimSpace(in.Contact) == "" {
		return apperrors.MissingRequired("contact")
	}
	if strings.TrimSpace(in.Approach) == "" {
		return apperrors.MissingRequired("approach")
	}
	if strings.TrimSpace(in.Deadline) == "" {
		return apperrors.MissingRequired("deadline")
	}
	if strings.TrimSpace(in.Price) == "" {
		return apperrors.MissingRequired("price")
	}
	return nil
}

func (s *SubmissionService) SubmitOffer(ctx context.Context, token string, input SubmitOfferInput) (*model.Offer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	brief, err := s.briefs.FindByToken(ctx, token)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if brief == nil {
		return nil, apperrors.NotFound("Project")
	}

	offer, err := s.offers.Create(ctx, model.CreateOfferParams{
		BriefID:        brief.ID,
		FreelancerName: input.FreelancerName,
		Contact:        input.Contact,
		Portfolio:      input.Portfolio,
		Experience:     input.Experience,
		Skills:         input.Skills,
		Approach:       input.Approach,
		Deadline:       input.Deadline,
		Price:          input.Price,
		Guarantees:     input.Guarantees,
		Risks:          input.Risks,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Int64("offerId", offer.ID).
		Int64("briefId", brief.ID).
		Msg("offer submitted")

	// Anonymous action: no actor.
	s.activity.Record(ctx, nil, model.EventOfferSubmitted, map[string]any{
		"offerId": offer.ID,
		"briefId": brief.ID,
	})

	return offer, nil
}
