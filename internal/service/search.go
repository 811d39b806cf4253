package service

import (
	"context"

	"core/internal/model"

	"go.uber.org/zap"
)

// SearchService runs one full query cycle: synthesize a structured
// query from free text, then fetch the listings it points at.
type SearchService struct {
	synthesizer *Synthesizer
	feed        *FeedClient
	logger      *zap.Logger
}

// NewSearchService creates the search service.
func NewSearchService(synthesizer *Synthesizer, feed *FeedClient, logger *zap.Logger) *SearchService {
	return &SearchService{
		synthesizer: synthesizer,
		feed:        feed,
		logger:      logger,
	}
}

// Search converts the free text into a structured query and fetches
// the matching listings. The returned query carries the search URL
// shown to the user even when the result set is empty.
func (s *SearchService) Search(ctx context.Context, freeText string) (*model.StructuredQuery, []model.ListingItem, error) {
	query, err := s.synthesizer.Synthesize(ctx, freeText)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.feed.Fetch(ctx, query.APIURL)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("search completed",
		zap.String("category", query.Category),
		zap.Int("results", len(items)))
	return query, items, nil
}
