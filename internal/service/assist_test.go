package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefboard/briefboard-server/internal/assist"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
)

type fakeQuota struct {
	allowed bool
}

func (q fakeQuota) TryConsume(ctx context.Context, key string) (bool, time.Time) {
	return q.allowed, time.Now().Add(time.Hour)
}

func newAssistServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newAssistServiceWith(serverURL string, quota Quota) *AssistService {
	client := assist.NewClient(assist.Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	return NewAssistService(client, quota, newTestActivityService())
}

func TestImproveProject(t *testing.T) {
	ctx := context.Background()
	actorID := int64(7)

	t.Run("parses the suggestion object", func(t *testing.T) {
		server := newAssistServer(t, `{
			"suggested_description": "Clearer description",
			"suggested_result": "Clearer result",
			"improvements": ["split into milestones"],
			"missing_info": ["budget range"]
		}`)
		defer server.Close()

		svc := newAssistServiceWith(server.URL, fakeQuota{allowed: true})

		out, err := svc.ImproveProject(ctx, "account:7", &actorID, ProjectImproveInput{
			Template:    "website",
			Title:       "Landing page",
			Description: "Need a page",
		})

		require.NoError(t, err)
		assert.Equal(t, "Clearer description", out.SuggestedDescription)
		assert.Equal(t, []string{"split into milestones"}, out.Improvements)
		assert.Equal(t, []string{"budget range"}, out.MissingInfo)
	})

	t.Run("exhausted quota is a rate limit error before any call", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		svc := newAssistServiceWith(server.URL, fakeQuota{allowed: false})

		_, err := svc.ImproveProject(ctx, "account:7", &actorID, ProjectImproveInput{})

		assert.Equal(t, apperrors.ErrCodeRateLimitExceeded, apperrors.GetCode(err))
		assert.False(t, called)
	})

	t.Run("upstream failure maps to an external error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := newAssistServiceWith(server.URL, fakeQuota{allowed: true})

		_, err := svc.ImproveProject(ctx, "account:7", &actorID, ProjectImproveInput{})

		assert.Equal(t, apperrors.ErrCodeExternal, apperrors.GetCode(err))
	})

	t.Run("non-JSON content maps to an external error", func(t *testing.T) {
		server := newAssistServer(t, "sorry, I cannot help with that")
		defer server.Close()

		svc := newAssistServiceWith(server.URL, fakeQuota{allowed: true})

		_, err := svc.ImproveProject(ctx, "account:7", &actorID, ProjectImproveInput{})

		assert.Equal(t, apperrors.ErrCodeExternal, apperrors.GetCode(err))
	})
}

func TestImproveOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the suggested offer", func(t *testing.T) {
		server := newAssistServer(t, `{
			"suggested_offer": {
				"approach": "Phased delivery",
				"guarantees": "Two revision rounds",
				"risks": "Content delays"
			},
			"improvements": ["name past projects"]
		}`)
		defer server.Close()

		svc := newAssistServiceWith(server.URL, fakeQuota{allowed: true})

		out, err := svc.ImproveOffer(ctx, "ip:10.0.0.1", nil, OfferAssistInput{
			Template: "website",
			Offer:    AssistOfferRef{Approach: "I will build it", Deadline: "10 days", Price: "500"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Phased delivery", out.SuggestedOffer.Approach)
		assert.Equal(t, []string{"name past projects"}, out.Improvements)
	})
}
