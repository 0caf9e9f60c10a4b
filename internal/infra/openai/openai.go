package infra_openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/humanbelnik/matchmovie/internal/config"
	"github.com/humanbelnik/matchmovie/internal/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	ErrNoChoices     = errors.New("completion has no choices")
	ErrEmptyContent  = errors.New("completion has empty content")
	ErrMalformedJSON = errors.New("completion is not valid analysis json")
)

const systemPrompt = `You analyse the votes of a group choosing a movie together.
The most voted movie is already known to the group and must not be recommended.
Pick one of the remaining movies that best fits the whole group, judging by the
genres and titles each participant voted for. Score every participant's
compatibility with your recommendation from 0 to 100 and explain it briefly.
Prefer movies with compatibility above 60 for most participants.`

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"statistics", "recommendation"},
	"properties": map[string]any{
		"statistics": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"totalVotes", "totalParticipants", "distribution"},
			"properties": map[string]any{
				"totalVotes":        map[string]any{"type": "integer"},
				"totalParticipants": map[string]any{"type": "integer"},
				"distribution": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"movie", "votes", "voters"},
						"properties": map[string]any{
							"movie":  map[string]any{"type": "string"},
							"votes":  map[string]any{"type": "integer"},
							"voters": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
		"recommendation": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"movie", "rationale", "compatibility"},
			"properties": map[string]any{
				"movie":     map[string]any{"type": "string"},
				"rationale": map[string]any{"type": "string"},
				"compatibility": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"participant", "compatibility", "reason"},
						"properties": map[string]any{
							"participant":   map[string]any{"type": "string"},
							"compatibility": map[string]any{"type": "number"},
							"reason":        map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

// Driver asks a chat completion model for a structured recommendation.
type Driver struct {
	client openai.Client
	model  string
}

func New(cfg config.Analysis) *Driver {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the caller.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Driver{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (d *Driver) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "movie_analysis",
					Description: openai.String("Vote statistics and a group movie recommendation"),
					Schema:      analysisSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, ErrNoChoices
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var dto analysisDTO
	if err := json.Unmarshal([]byte(content), &dto); err != nil {
		return nil, errors.Join(ErrMalformedJSON, err)
	}
	return dto.ToDomain(), nil
}

func buildPrompt(req model.AnalysisRequest) (string, error) {
	payload := struct {
		MostVoted         model.MovieSummary   `json:"mostVotedMovie"`
		Candidates        []model.MovieSummary `json:"candidates"`
		Participants      []model.VoterProfile `json:"participants"`
		TotalParticipants int                  `json:"totalParticipants"`
	}{
		MostVoted:         req.TopMovie,
		Candidates:        req.Movies,
		Participants:      req.Voters,
		TotalParticipants: req.TotalParticipants,
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Room %s finished voting.\n", req.RoomCode)
	b.WriteString("Recommend one of the candidates for the whole group.\n\n")
	b.Write(raw)
	return b.String(), nil
}
