package lyrics

import (
	"context"
	"fmt"

	"github.com/sukalov/chordview/internal/logger"
	"github.com/sukalov/chordview/internal/redis"
	"github.com/sukalov/chordview/internal/songtext"
)

// Service hands out song documents, hitting the redis cache before the
// edge function. The document for a song is immutable for the lifetime
// of a viewing session.
type Service struct {
	client *Client
	cache  *redis.DBManager
}

// NewService creates a new lyrics service. cache may be nil (CLI runs).
func NewService(cache *redis.DBManager) *Service {
	return &Service{
		client: NewClient(),
		cache:  cache,
	}
}

// GetDocument returns the normalized document for a song.
func (s *Service) GetDocument(ctx context.Context, songID, url string) (*songtext.Document, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDocument(ctx, songID)
		if err != nil {
			logger.Error(fmt.Sprintf("document cache read failed for song %s\nError: %v", songID, err))
		}
		if cached != nil {
			doc, err := songtext.DecodeDocument(songID, cached)
			if err == nil {
				return doc, nil
			}
			// A stale or corrupt cache entry falls through to a fresh fetch.
			logger.Error(fmt.Sprintf("cached document for song %s is corrupt\nError: %v", songID, err))
		}
	}

	data, err := s.client.FetchDocument(url)
	if err != nil {
		return nil, err
	}

	doc, err := songtext.DecodeDocument(songID, data)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to decode document for song %s\nError: %v", songID, err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDocument(ctx, songID, data); err != nil {
			logger.Error(fmt.Sprintf("document cache write failed for song %s\nError: %v", songID, err))
		}
	}

	logger.Debug(fmt.Sprintf("fetched document for song %s (%d lines)", songID, len(doc.Lines)))
	return doc, nil
}
