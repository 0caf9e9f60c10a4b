package infra_openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/humanbelnik/matchmovie/internal/config"
	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type OpenAISuite struct {
	suite.Suite
}

const analysisJSON = `{
	"statistics": {
		"totalVotes": 3,
		"totalParticipants": 2,
		"distribution": [
			{"movie": "Heat", "votes": 2, "voters": ["alice", "bob"]},
			{"movie": "Ronin", "votes": 1, "voters": ["bob"]}
		]
	},
	"recommendation": {
		"movie": "Ronin",
		"rationale": "Both like action",
		"compatibility": [
			{"participant": "alice", "compatibility": 72.5, "reason": "action fan"},
			{"participant": "bob", "compatibility": 95, "reason": "voted for it"}
		]
	}
}`

var request = model.AnalysisRequest{
	RoomCode:          "ABC123",
	TopMovie:          model.MovieSummary{Title: "Heat", Votes: 2, Voters: []string{"alice", "bob"}},
	Movies:            []model.MovieSummary{{Title: "Ronin", Votes: 1, Voters: []string{"bob"}, Genres: []string{"Action"}}},
	Voters:            []model.VoterProfile{{Participant: "bob", VotedMovies: []string{"Heat", "Ronin"}, PreferredGenres: []string{"Action"}}},
	TotalParticipants: 2,
}

func completionServer(t provider.T, status int, content string, seen chan<- map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			_ = json.Unmarshal(raw, &body)
			seen <- body
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func newDriver(url string) *Driver {
	return New(config.Analysis{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: url + "/",
	})
}

func (s *OpenAISuite) TestAnalyze(t provider.T) {
	t.Parallel()

	seen := make(chan map[string]any, 1)
	server := completionServer(t, http.StatusOK, analysisJSON, seen)
	defer server.Close()

	res, err := newDriver(server.URL).Analyze(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Statistics.TotalVotes)
	assert.Len(t, res.Statistics.Distribution, 2)
	assert.Equal(t, "Ronin", res.Recommendation.Movie)
	assert.Equal(t, []model.ParticipantCompatibility{
		{Participant: "alice", Compatibility: 72.5, Reason: "action fan"},
		{Participant: "bob", Compatibility: 95, Reason: "voted for it"},
	}, res.Recommendation.Compatibility)

	body := <-seen
	assert.Equal(t, "gpt-4o-mini", body["model"])
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func (s *OpenAISuite) TestAnalyzeFailures(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		status        int
		content       string
		expectedError error
	}{
		{
			name:          "Should reject empty content",
			status:        http.StatusOK,
			content:       "  ",
			expectedError: ErrEmptyContent,
		},
		{
			name:          "Should reject malformed json",
			status:        http.StatusOK,
			content:       "{\"statistics\":",
			expectedError: ErrMalformedJSON,
		},
		{
			name:   "Should surface upstream errors",
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			server := completionServer(t, tc.status, tc.content, nil)
			defer server.Close()

			res, err := newDriver(server.URL).Analyze(context.Background(), request)

			assert.Error(t, err)
			assert.Nil(t, res)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			}
		})
	}
}

func (s *OpenAISuite) TestBuildPrompt(t provider.T) {
	t.Parallel()

	prompt, err := buildPrompt(request)
	require.NoError(t, err)

	assert.Contains(t, prompt, "ABC123")
	assert.Contains(t, prompt, `"mostVotedMovie"`)
	assert.Contains(t, prompt, `"Ronin"`)
	assert.Contains(t, prompt, `"preferredGenres"`)
}

func TestOpenAISuite(t *testing.T) {
	suite.RunSuite(t, new(OpenAISuite))
}
