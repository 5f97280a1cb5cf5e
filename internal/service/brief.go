package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
	"github.com/briefboard/briefboard-server/internal/util"
)

const tokenCreateAttempts = 5

type BriefService struct {
	briefs   repository.BriefRepository
	offers   repository.OfferRepository
	activity *ActivityService
}

func NewBriefService(
	briefs repository.BriefRepository,
	offers repository.OfferRepository,
	activity *ActivityService,
) *BriefService {
	return &BriefService{
		briefs:   briefs,
		offers:   offers,
		activity: activity,
	}
}

type CreateBriefInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ExpectedResult string   `json:"expectedResult"`
	Deadline       string   `json:"deadline"`
	Budget         *string  `json:"budget"`
	Criteria       []string `json:"criteria"`
	Template       string   `json:"template"`
}

func (in *CreateBriefInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.MissingRequired("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperrors.MissingRequired("description")
	}
	if strings.TrimSpace(in.ExpectedResult) == "" {
		return apperrors.MissingRequired("expectedResult")
	}
	if strings.TrimSpace(in.Deadline) == "" {
		return apperrors.MissingRequired("deadline")
	}
	if in.Template != "" && !model.BriefTemplate(in.Template).Valid() {
		return apperrors.InvalidInput("template", "unknown template category")
	}
	return nil
}

// Create persists a new brief under ownerID with a freshly generated public
// sharing token. A collision on the token uniqueness constraint is retried
// with a new token.
func (s *BriefService) Create(ctx context.Context, ownerID int64, input CreateBriefInput) (*model.Brief, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	template := model.BriefTemplate(input.Template)
	if input.Template == "" {
		template = model.TemplateOther
	}

	var brief *model.Brief
	for attempt := 0; attempt < tokenCreateAttempts; attempt++ {
		token, err := util.GeneratePublicToken()
		if err != nil {
			return nil, apperrors.Internal("Failed to generate sharing token").WithCause(err)
		}

		brief, err = s.briefs.Create(ctx, model.CreateBriefParams{
			OwnerID:        ownerID,
			Title:          input.Title,
			Description:    input.Description,
			ExpectedResult: input.ExpectedResult,
			Deadline:       input.Deadline,
			Budget:         input.Budget,
			Criteria:       input.Criteria,
			Template:       template,
			PublicToken:    token,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				continue
			}
			return nil, apperrors.Database(err)
		}
		break
	}
	if brief == nil {
		return nil, apperrors.Internal("Failed to create brief")
	}

	log.Info().
		Int64("briefId", brief.ID).
		Int64("ownerId", ownerID).
		Msg("brief created")

	s.activity.Record(ctx, &ownerID, model.EventBriefCreated, map[string]any{
		"briefId": brief.ID,
	})

	return brief, nil
}

func (s *BriefService) ListByOwner(ctx context.Context, ownerID int64) ([]model.BriefWithOfferCount, error) {
	briefs, err := s.briefs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return briefs, nil
}

// GetOwned returns a brief with its offers, newest first. An absent brief is
// NotFound; a brief owned by someone else is Unauthorized, matching the
// dashboard contract.
func (s *BriefService) GetOwned(ctx context.Context, ownerID, briefID int64) (*model.Brief, []model.Offer, error) {
	brief, err := s.briefs.FindByID(ctx, briefID)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}
	if brief == nil {
		return nil, nil, apperrors.NotFound("Project")
	}
	if brief.OwnerID != ownerID {
		return nil, nil, apperrors.Unauthorized("Not your project")
	}

	offers, err := s.offers.ListByBrief(ctx, briefID)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}
	return brief, offers, nil
}

// GetPublicByToken resolves a brief for the anonymous submission page. Any
// unknown token flattens to one NotFound outcome.
func (s *BriefService) GetPublicByToken(ctx context.Context, token string) (*model.Brief, error) {
	brief, err := s.briefs.FindByToken(ctx, token)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if brief == nil {
		return nil, apperrors.NotFound("Project")
	}
	return brief, nil
}
