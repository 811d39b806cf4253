package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"core/internal/model"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	testSearchBase = "https://www.yad2.co.il/realestate"
	testFeedBase   = "https://gw.yad2.co.il/realestate-feed"
)

// fakeCompletionClient returns a canned completion, or an error.
type fakeCompletionClient struct {
	content string
	err     error

	lastRequest openai.ChatCompletionRequest
}

func (f *fakeCompletionClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

// completeQueryDoc builds a schema-complete document with every key
// null, then applies the overrides.
func completeQueryDoc(t *testing.T, overrides map[string]interface{}) string {
	t.Helper()
	doc := map[string]interface{}{
		"category": "forsale", "subcategory": "forsale",
		"minPrice": nil, "maxPrice": nil,
		"minRooms": nil, "maxRooms": nil,
		"minFloor": nil, "maxFloor": nil,
		"minSquareMeter": nil, "maxSquareMeter": nil,
		"imageOnly": nil, "priceOnly": nil, "settlements": nil,
		"priceDropped": nil, "brokerage": nil, "newFromContractor": nil,
		"property": nil, "parking": nil, "elevator": nil,
		"airConditioner": nil, "balcony": nil, "shelter": nil,
		"bars": nil, "warehouse": nil, "accessibility": nil,
		"renovated": nil, "furniture": nil, "assetExclusive": nil,
		"topArea": nil, "area": nil, "city": nil,
		"propertyCondition": nil,
		"searchUrl":         testSearchBase + "/forsale",
		"apiUrl":            testFeedBase + "/forsale/map",
	}
	for k, v := range overrides {
		if v == deleteKey {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal test document: %v", err)
	}
	return string(raw)
}

type deleteSentinel struct{}

var deleteKey interface{} = deleteSentinel{}

func newTestSynthesizer(t *testing.T, client CompletionClient) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(client, "test-model", testSearchBase, testFeedBase, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create synthesizer: %v", err)
	}
	return s
}

func TestSynthesize_BoundedSearch(t *testing.T) {
	client := &fakeCompletionClient{
		content: completeQueryDoc(t, map[string]interface{}{
			"category": "forsale", "subcategory": "forsale",
			"city":     5000,
			"maxRooms": 3,
			"maxPrice": 2000000,
			"searchUrl": testSearchBase +
				"/forsale?city=5000&maxRooms=3&maxPrice=2000000",
			"apiUrl": testFeedBase +
				"/forsale/map?city=5000&maxRooms=3&maxPrice=2000000",
		}),
	}
	s := newTestSynthesizer(t, client)

	query, err := s.Synthesize(context.Background(), "3 room apartment in Tel Aviv under 2,000,000")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}

	if query.Category != model.CategoryForSale {
		t.Errorf("Expected category %q, got %q", model.CategoryForSale, query.Category)
	}
	if query.City == nil || *query.City != 5000 {
		t.Errorf("Expected city 5000, got %v", query.City)
	}
	if query.MaxRooms == nil || *query.MaxRooms != 3 {
		t.Errorf("Expected maxRooms 3, got %v", query.MaxRooms)
	}
	if query.MaxPrice == nil || *query.MaxPrice != 2000000 {
		t.Errorf("Expected maxPrice 2000000, got %v", query.MaxPrice)
	}
	if query.MinPrice != nil {
		t.Errorf("Expected minPrice to stay unset, got %v", *query.MinPrice)
	}

	if client.lastRequest.ResponseFormat == nil ||
		client.lastRequest.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONSchema {
		t.Error("Expected a json_schema response format on the request")
	}
}

func TestSynthesize_ParkingDefaultsToRent(t *testing.T) {
	client := &fakeCompletionClient{
		content: completeQueryDoc(t, map[string]interface{}{
			"category": "rent", "subcategory": "rent",
			"property":  model.PropertyTypeParking,
			"city":      5000,
			"searchUrl": testSearchBase + "/rent?property=30&city=5000",
			"apiUrl":    testFeedBase + "/rent/map?property=30&city=5000",
		}),
	}
	s := newTestSynthesizer(t, client)

	query, err := s.Synthesize(context.Background(), "חניה בתל אביב")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if query.Category != model.CategoryRent {
		t.Errorf("Expected category %q, got %q", model.CategoryRent, query.Category)
	}
	if query.Property == nil || *query.Property != model.PropertyTypeParking {
		t.Errorf("Expected property %q, got %v", model.PropertyTypeParking, query.Property)
	}
}

func TestSynthesize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{
			name: "transport error",
			err:  errors.New("connection refused"),
		},
		{
			name:    "empty content",
			content: "",
		},
		{
			name:    "not JSON",
			content: "I could not build a query for that.",
		},
		{
			name: "missing required key",
			content: completeQueryDoc(t, map[string]interface{}{
				"maxPrice": deleteKey,
			}),
		},
		{
			name: "unknown extra key",
			content: completeQueryDoc(t, map[string]interface{}{
				"petFriendly": true,
			}),
		},
		{
			name: "mismatched URL parameters",
			content: completeQueryDoc(t, map[string]interface{}{
				"city":      5000,
				"searchUrl": testSearchBase + "/forsale?city=5000",
				"apiUrl":    testFeedBase + "/forsale/map?city=4000",
			}),
		},
		{
			name: "wrong category in URL path",
			content: completeQueryDoc(t, map[string]interface{}{
				"searchUrl": testSearchBase + "/rent",
				"apiUrl":    testFeedBase + "/forsale/map",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynthesizer(t, &fakeCompletionClient{content: tt.content, err: tt.err})
			_, err := s.Synthesize(context.Background(), "anything")
			if err == nil {
				t.Fatal("Expected an error")
			}
			var synthErr *SynthesisError
			if !errors.As(err, &synthErr) {
				t.Errorf("Expected SynthesisError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidateQueryURLs_RepeatedParameter(t *testing.T) {
	q := &model.StructuredQuery{
		Category:  model.CategoryForSale,
		SearchURL: testSearchBase + "/forsale?property=1&property=3",
		APIURL:    testFeedBase + "/forsale/map?property=1&property=3",
	}
	if err := validateQueryURLs(q, testSearchBase, testFeedBase); err == nil {
		t.Error("Expected repeated query keys to be rejected")
	}
}
