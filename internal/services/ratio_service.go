package services

import (
	"context"
	"time"

	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/models/dtos"
)

const ratioModelTTL = 10 * time.Minute

// RatioService serves fitted ratio models per aircraft. Models are cached;
// the ledger service invalidates the cache on every commit, edit or delete.
type RatioService struct {
	statsRepo *repositories.FlightStatsRepository
	cache     common.CacheInterface
}

// NewRatioService creates a new RatioService
func NewRatioService(statsRepo *repositories.FlightStatsRepository, cache common.CacheInterface) *RatioService {
	return &RatioService{statsRepo: statsRepo, cache: cache}
}

// GetModel returns the (possibly cached) ratio model for an aircraft
func (s *RatioService) GetModel(ctx context.Context, aircraftID string) (*RatioModel, error) {
	val, err := s.cache.GetOrSet(ratioModelCacheKey(aircraftID), ratioModelTTL, func() (any, error) {
		samples, err := s.statsRepo.GetRatioSamples(ctx, aircraftID)
		if err != nil {
			return nil, err
		}
		return BuildRatioModel(samples), nil
	})
	if err != nil {
		return nil, err
	}

	return val.(*RatioModel), nil
}

// Predict answers a predict(tach_delta) query for an aircraft
func (s *RatioService) Predict(ctx context.Context, aircraftID string, tachDelta float64) (*dtos.RatioPredictionResponse, error) {
	if tachDelta <= 0 {
		return nil, constants.NewValidationError("tach_delta must be positive, got %v", tachDelta)
	}

	model, err := s.GetModel(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	if model.TotalSamples == 0 {
		return nil, constants.NewValidationError("no historical flights to predict from for aircraft %s", aircraftID)
	}

	ratio, bucketKey, confidence, usedFallback := model.ExpectedRatio(tachDelta)
	low, high := AcceptableBand(tachDelta)

	return &dtos.RatioPredictionResponse{
		TachDelta:      tachDelta,
		ExpectedRatio:  ratio,
		PredictedHobbs: model.Predict(tachDelta),
		Bucket:         bucketKey,
		Confidence:     confidence,
		UsedFallback:   usedFallback,
		BandLow:        low,
		BandHigh:       high,
	}, nil
}

// Buckets returns the fitted buckets for display, skipping empty ones
func (s *RatioService) Buckets(ctx context.Context, aircraftID string) ([]dtos.RatioBucketResponse, error) {
	model, err := s.GetModel(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.RatioBucketResponse, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		out = append(out, dtos.RatioBucketResponse{
			Bucket:      b.Key,
			Samples:     b.Samples,
			AvgRatio:    b.AvgRatio,
			MedianRatio: b.MedianRatio,
			Confidence:  b.Confidence,
		})
	}

	return out, nil
}
