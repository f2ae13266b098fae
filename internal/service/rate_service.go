package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/storage"
)

const exchangeRateCacheKey = "exchange-rate:dolar-blue"

// exchangeRateAPI fetches the blue-dollar quote
type exchangeRateAPI interface {
	GetDolarBlue(ctx context.Context) (*provider.ExchangeRate, error)
}

// RateService serves the display exchange rate, cached in Redis so the
// upstream API is hit at most once per TTL.
type RateService struct {
	api    exchangeRateAPI
	cache  *storage.RedisCache
	ttl    time.Duration
	logger *logging.Logger
}

// NewRateService creates a new exchange-rate service
func NewRateService(api exchangeRateAPI, cache *storage.RedisCache, ttl time.Duration, logger *logging.Logger) *RateService {
	return &RateService{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// GetDolarBlue returns the current blue-dollar quote, served from cache when
// fresh
func (s *RateService) GetDolarBlue(ctx context.Context) (*provider.ExchangeRate, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, exchangeRateCacheKey); err == nil {
			var rate provider.ExchangeRate
			if err := json.Unmarshal([]byte(cached), &rate); err == nil {
				return &rate, nil
			}
		} else if !storage.IsMiss(err) {
			s.logger.WithError(err).Warn("exchange rate cache read failed")
		}
	}

	rate, err := s.api.GetDolarBlue(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(rate); err == nil {
			if err := s.cache.Set(ctx, exchangeRateCacheKey, data, s.ttl); err != nil {
				s.logger.WithError(err).Warn("exchange rate cache write failed")
			}
		}
	}

	return rate, nil
}
