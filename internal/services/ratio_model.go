package services

import (
	"fmt"
	"math"
	"sort"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
)

// RatioBucket aggregates flights whose tach delta falls in one 0.1h slice.
type RatioBucket struct {
	Key         string
	Samples     int
	SumHobbs    float64
	SumTach     float64
	AvgRatio    float64 // Σdiff_hobbs / Σdiff_tach
	MedianRatio float64 // median of per-flight ratios
	Confidence  string
}

// RatioModel is the fitted Hobbs/Tach ratio predictor for one aircraft.
// It is read-only once built; callers use it to estimate an expected Hobbs
// delta when the Hobbs sensor is degraded or its reading looks implausible.
type RatioModel struct {
	Buckets      map[string]*RatioBucket
	GlobalRatio  float64
	TotalSamples int
}

// BuildRatioModel fits the predictor over the sample population. The
// population is expected to be pre-filtered (positive deltas, live Hobbs
// sensor); rows violating that are skipped defensively.
func BuildRatioModel(samples []repositories.RatioSampleRow) *RatioModel {
	model := &RatioModel{
		Buckets: make(map[string]*RatioBucket),
	}

	ratios := make(map[string][]float64)
	var sumHobbs, sumTach float64

	for _, s := range samples {
		if s.DiffHobbs <= 0 || s.DiffTach <= 0 {
			continue
		}

		key := BucketKey(s.DiffTach)
		bucket, ok := model.Buckets[key]
		if !ok {
			bucket = &RatioBucket{Key: key}
			model.Buckets[key] = bucket
		}

		bucket.Samples++
		bucket.SumHobbs += s.DiffHobbs
		bucket.SumTach += s.DiffTach
		ratios[key] = append(ratios[key], s.DiffHobbs/s.DiffTach)

		sumHobbs += s.DiffHobbs
		sumTach += s.DiffTach
		model.TotalSamples++
	}

	for key, bucket := range model.Buckets {
		if bucket.SumTach > 0 {
			bucket.AvgRatio = bucket.SumHobbs / bucket.SumTach
		}
		bucket.MedianRatio = median(ratios[key])
		bucket.Confidence = confidenceLabel(bucket.Samples)
	}

	if sumTach > 0 {
		model.GlobalRatio = sumHobbs / sumTach
	}

	return model
}

// BucketKey maps a tach delta to its bucket: floored to the nearest 0.1,
// capped at a final "5.0+" bucket.
func BucketKey(diffTach float64) string {
	if diffTach >= constants.RatioBucketCap {
		return "5.0+"
	}
	floored := math.Floor(diffTach/constants.RatioBucketWidth+1e-9) * constants.RatioBucketWidth
	return fmt.Sprintf("%.1f", floored)
}

// ExpectedRatio returns the ratio to use for a given tach delta. Buckets
// with fewer than 3 samples fall back to the global ratio.
func (m *RatioModel) ExpectedRatio(diffTach float64) (ratio float64, bucketKey string, confidence string, usedFallback bool) {
	bucketKey = BucketKey(diffTach)
	confidence = constants.RatioConfidenceLow

	if bucket, ok := m.Buckets[bucketKey]; ok {
		confidence = bucket.Confidence
		if bucket.Samples >= constants.RatioMinBucketSamples {
			return bucket.AvgRatio, bucketKey, confidence, false
		}
	}

	return m.GlobalRatio, bucketKey, confidence, true
}

// Predict estimates the expected Hobbs delta for a tach delta, rounded to
// one decimal place.
func (m *RatioModel) Predict(diffTach float64) float64 {
	ratio, _, _, _ := m.ExpectedRatio(diffTach)
	return math.Round(diffTach*ratio*10) / 10
}

// AcceptableBand returns the plausible Hobbs/Tach ratio range for a flight
// of the given length. Callers use it to flag anomalies; the predictor
// itself never enforces it.
func AcceptableBand(diffTach float64) (low, high float64) {
	switch {
	case diffTach < 1.0:
		return 1.00, 2.00
	case diffTach < 2.0:
		return 1.00, 1.70
	default:
		return 1.00, 1.40
	}
}

func confidenceLabel(samples int) string {
	switch {
	case samples >= constants.RatioHighSamples:
		return constants.RatioConfidenceHigh
	case samples >= constants.RatioMediumSamples:
		return constants.RatioConfidenceMedium
	default:
		return constants.RatioConfidenceLow
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
