package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/briefboard/briefboard-server/internal/assist"
	"github.com/briefboard/briefboard-server/internal/audit"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
)

// Quota gates suggestion requests per caller identity.
type Quota interface {
	TryConsume(ctx context.Context, key string) (allowed bool, resetAt time.Time)
}

// AssistService calls the external text-generation service for "improve" and
// "review" suggestions on briefs and offers. The quota check runs before any
// external call; a throttled caller never reaches the service.
type AssistService struct {
	client   *assist.Client
	limiter  Quota
	activity *ActivityService
}

func NewAssistService(client *assist.Client, limiter Quota, activity *ActivityService) *AssistService {
	return &AssistService{
		client:   client,
		limiter:  limiter,
		activity: activity,
	}
}

type ProjectImproveInput struct {
	Template    string `json:"template"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Result      string `json:"result,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

type ProjectImproveOutput struct {
	SuggestedDescription string   `json:"suggested_description"`
	SuggestedResult      string   `json:"suggested_result"`
	Improvements         []string `json:"improvements"`
	MissingInfo          []string `json:"missing_info"`
}

type ProjectReviewOutput struct {
	Improvements []string `json:"improvements"`
	MissingInfo  []string `json:"missing_info"`
}

type AssistProjectRef struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Result      string `json:"result,omitempty"`
}

type AssistOfferRef struct {
	Approach   string `json:"approach"`
	Deadline   string `json:"deadline"`
	Price      string `json:"price"`
	Guarantees string `json:"guarantees,omitempty"`
	Risks      string `json:"risks,omitempty"`
}

type OfferAssistInput struct {
	Template string           `json:"template"`
	Project  AssistProjectRef `json:"project"`
	Offer    AssistOfferRef   `json:"offer"`
}

type OfferImproveOutput struct {
	SuggestedOffer struct {
		Approach   string `json:"approach"`
		Guarantees string `json:"guarantees"`
		Risks      string `json:"risks"`
	} `json:"suggested_offer"`
	Improvements []string `json:"improvements"`
}

type OfferReviewOutput struct {
	Improvements []string `json:"improvements"`
	MissingInfo  []string `json:"missing_info"`
}

const projectImprovePrompt = `You are an assistant that improves project briefs.
Your tasks:
1. Make the description more structured and clear
2. Improve the wording of the expected result
3. Suggest concrete improvements
4. Point out missing information

Rules:
- Do NOT invent facts; anything missing goes into missing_info
- Be brief and to the point
- Return JSON in the format:
{
  "suggested_description": "improved description",
  "suggested_result": "improved expected result",
  "improvements": ["improvement 1", "improvement 2"],
  "missing_info": ["missing item 1", "missing item 2"]
}`

const projectReviewPrompt = `You are an advisor on project briefs.
Give advice on how to improve the brief WITHOUT rewriting it.

Rules:
- Name concrete improvements
- List missing information
- Be brief and to the point
- Return JSON in the format:
{
  "improvements": ["advice 1", "advice 2"],
  "missing_info": ["missing item 1", "missing item 2"]
}`

const offerImprovePrompt = `You are an assistant that improves freelancer offers.
Your tasks:
1. Make the approach more structured and convincing
2. Improve the wording of the guarantees
3. Describe potential risks better
4. Suggest concrete improvements

Rules:
- Do NOT change the price or the deadline; only approach, guarantees, risks
- Do NOT invent facts
- Be brief and to the point
- Return JSON in the format:
{
  "suggested_offer": {
    "approach": "improved approach",
    "guarantees": "improved guarantees",
    "risks": "improved risk description"
  },
  "improvements": ["improvement 1", "improvement 2"]
}`

const offerReviewPrompt = `You are an advisor for freelancers.
Give advice on how to improve the offer WITHOUT rewriting it.

Rules:
- Do NOT judge whether to hire; you are not choosing a candidate
- Name concrete improvements
- List missing information
- Be brief and to the point
- Return JSON in the format:
{
  "improvements": ["advice 1", "advice 2"],
  "missing_info": ["missing item 1", "missing item 2"]
}`

func (in *ProjectImproveInput) truncate() {
	in.Title = assist.Truncate(in.Title)
	in.Description = assist.Truncate(in.Description)
	in.Result = assist.Truncate(in.Result)
	in.Deadline = assist.Truncate(in.Deadline)
	in.Budget = assist.Truncate(in.Budget)
}

func (in *OfferAssistInput) truncate() {
	in.Project.Title = assist.Truncate(in.Project.Title)
	in.Project.Description = assist.Truncate(in.Project.Description)
	in.Project.Result = assist.Truncate(in.Project.Result)
	in.Offer.Approach = assist.Truncate(in.Offer.Approach)
	in.Offer.Deadline = assist.Truncate(in.Offer.Deadline)
	in.Offer.Price = assist.Truncate(in.Offer.Price)
	in.Offer.Guarantees = assist.Truncate(in.Offer.Guarantees)
	in.Offer.Risks = assist.Truncate(in.Offer.Risks)
}

func (s *AssistService) ImproveProject(ctx context.Context, quotaKey string, actorID *int64, input ProjectImproveInput) (*ProjectImproveOutput, error) {
	input.truncate()
	var out ProjectImproveOutput
	if err := s.call(ctx, quotaKey, actorID, "project_improve", projectImprovePrompt, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssistService) ReviewProject(ctx context.Context, quotaKey string, actorID *int64, input ProjectImproveInput) (*ProjectReviewOutput, error) {
	input.truncate()
	var out ProjectReviewOutput
	if err := s.call(ctx, quotaKey, actorID, "project_review", projectReviewPrompt, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssistService) ImproveOffer(ctx context.Context, quotaKey string, actorID *int64, input OfferAssistInput) (*OfferImproveOutput, error) {
	input.truncate()
	var out OfferImproveOutput
	if err := s.call(ctx, quotaKey, actorID, "offer_improve", offerImprovePrompt, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssistService) ReviewOffer(ctx context.Context, quotaKey string, actorID *int64, input OfferAssistInput) (*OfferReviewOutput, error) {
	input.truncate()
	var out OfferReviewOutput
	if err := s.call(ctx, quotaKey, actorID, "offer_review", offerReviewPrompt, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssistService) call(ctx context.Context, quotaKey string, actorID *int64, kind, prompt string, payload, out any) error {
	allowed, resetAt := s.limiter.TryConsume(ctx, quotaKey)
	if !allowed {
		event := audit.Event{
			Type:    audit.EventAssistThrottled,
			Details: map[string]interface{}{"kind": kind},
		}
		if actorID != nil {
			event.AccountID = *actorID
		}
		audit.Log(ctx, event)
		return apperrors.RateLimitExceeded().WithDetails(map[string]any{
			"resetAt": resetAt.Unix(),
		})
	}

	raw, err := s.client.Complete(ctx, prompt, payload)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("assist call failed")
		return apperrors.External("text generation", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("assist response not valid JSON")
		return apperrors.External("text generation", err)
	}

	s.activity.Record(ctx, actorID, model.EventAssistRequest, map[string]any{
		"kind": kind,
	})

	return nil
}
