package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"core/internal/model"

	openai "github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Completion sampling parameters. Low temperature keeps the output
// deterministic enough for a strict schema contract.
const (
	completionTemperature      = 0.2
	completionTopP             = 1.0
	completionMaxTokens        = 2048
	completionFrequencyPenalty = 0
	completionPresencePenalty  = 0
)

// SynthesisError reports a free-text request that could not be turned
// into a valid structured query. It covers transport failures, schema
// violations and malformed URLs alike; the caller treats them all the
// same way.
type SynthesisError struct {
	Reason     string
	Violations []string
}

func (e *SynthesisError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("query synthesis failed: %s", e.Reason)
	}
	return fmt.Sprintf("query synthesis failed: %s: %s", e.Reason, strings.Join(e.Violations, "; "))
}

// Synthesizer turns free text into a StructuredQuery via a
// schema-constrained chat completion.
type Synthesizer struct {
	client     CompletionClient
	model      string
	searchBase string
	feedBase   string
	schema     *gojsonschema.Schema
	logger     *zap.Logger
}

// NewSynthesizer compiles the query schema and builds a synthesizer.
func NewSynthesizer(client CompletionClient, modelName, searchBase, feedBase string, logger *zap.Logger) (*Synthesizer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(querySchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile query schema: %w", err)
	}
	return &Synthesizer{
		client:     client,
		model:      modelName,
		searchBase: strings.TrimRight(searchBase, "/"),
		feedBase:   strings.TrimRight(feedBase, "/"),
		schema:     schema,
		logger:     logger,
	}, nil
}

// Synthesize sends the free text to the completion service and returns
// the validated structured query. The completion is constrained by the
// query schema, and the output is validated again locally before it is
// trusted.
func (s *Synthesizer) Synthesize(ctx context.Context, freeText string) (*model.StructuredQuery, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Please adhere to the following JSON schema.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(s.searchBase, s.feedBase, freeText),
			},
		},
		Temperature:      completionTemperature,
		TopP:             completionTopP,
		MaxTokens:        completionMaxTokens,
		FrequencyPenalty: completionFrequencyPenalty,
		PresencePenalty:  completionPresencePenalty,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        "RealEstateQuerySchema",
				Description: "Schema to structure the real estate query parameters.",
				Schema:      json.RawMessage(querySchemaJSON),
				Strict:      true,
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		s.logger.Error("completion request failed", zap.Error(err))
		return nil, &SynthesisError{Reason: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return nil, &SynthesisError{Reason: "completion returned no choices"}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, &SynthesisError{Reason: "completion returned empty content"}
	}

	result, err := s.schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SynthesisError{Reason: fmt.Sprintf("completion output is not valid JSON: %v", err)}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		s.logger.Warn("completion output violates query schema",
			zap.Strings("violations", violations))
		return nil, &SynthesisError{Reason: "completion output violates query schema", Violations: violations}
	}

	var query model.StructuredQuery
	if err := json.Unmarshal([]byte(content), &query); err != nil {
		return nil, &SynthesisError{Reason: fmt.Sprintf("failed to decode completion output: %v", err)}
	}

	if err := validateQueryURLs(&query, s.searchBase, s.feedBase); err != nil {
		s.logger.Warn("synthesized URLs rejected", zap.Error(err))
		return nil, err
	}

	s.logger.Info("query synthesized",
		zap.String("category", query.Category),
		zap.String("api_url", query.APIURL))
	return &query, nil
}

// validateQueryURLs checks the derived URLs against the structured
// fields: correct base and category path, and identical query
// parameter sets on both URLs with a single non-empty value per key.
func validateQueryURLs(q *model.StructuredQuery, searchBase, feedBase string) error {
	if q.Category != model.CategoryRent && q.Category != model.CategoryForSale {
		return &SynthesisError{Reason: fmt.Sprintf("unknown category %q", q.Category)}
	}

	searchURL, err := url.Parse(q.SearchURL)
	if err != nil {
		return &SynthesisError{Reason: fmt.Sprintf("malformed search URL: %v", err)}
	}
	apiURL, err := url.Parse(q.APIURL)
	if err != nil {
		return &SynthesisError{Reason: fmt.Sprintf("malformed API URL: %v", err)}
	}

	wantSearch := searchBase + "/" + q.Category
	if got := searchURL.Scheme + "://" + searchURL.Host + searchURL.Path; got != wantSearch {
		return &SynthesisError{Reason: fmt.Sprintf("search URL path %q does not match %q", got, wantSearch)}
	}
	wantAPI := feedBase + "/" + q.Category + "/map"
	if got := apiURL.Scheme + "://" + apiURL.Host + apiURL.Path; got != wantAPI {
		return &SynthesisError{Reason: fmt.Sprintf("API URL path %q does not match %q", got, wantAPI)}
	}

	searchParams := searchURL.Query()
	apiParams := apiURL.Query()
	for key, values := range searchParams {
		if len(values) != 1 || values[0] == "" {
			return &SynthesisError{Reason: fmt.Sprintf("search URL parameter %q must have exactly one non-empty value", key)}
		}
		if got, ok := apiParams[key]; !ok || len(got) != 1 || got[0] != values[0] {
			return &SynthesisError{Reason: fmt.Sprintf("parameter %q differs between search and API URLs", key)}
		}
	}
	for key := range apiParams {
		if _, ok := searchParams[key]; !ok {
			return &SynthesisError{Reason: fmt.Sprintf("parameter %q present only in API URL", key)}
		}
	}

	return nil
}
