package services

import (
	"math"
	"testing"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
)

func sample(hobbs, tach float64) repositories.RatioSampleRow {
	return repositories.RatioSampleRow{DiffHobbs: hobbs, DiffTach: tach}
}

func TestBucketKey(t *testing.T) {
	cases := []struct {
		diffTach float64
		want     string
	}{
		{0.05, "0.0"},
		{0.1, "0.1"},
		{0.3, "0.3"}, // float fuzz must not floor this into 0.2
		{1.0, "1.0"},
		{1.79, "1.7"},
		{1.8, "1.8"},
		{4.99, "4.9"},
		{5.0, "5.0+"},
		{7.3, "5.0+"},
	}

	for _, tc := range cases {
		if got := BucketKey(tc.diffTach); got != tc.want {
			t.Errorf("BucketKey(%v) = %q, want %q", tc.diffTach, got, tc.want)
		}
	}
}

func TestBuildRatioModel_BucketAverages(t *testing.T) {
	// Three flights in the 1.8 bucket with ratios 1.39, 1.44 and 1.33.
	model := BuildRatioModel([]repositories.RatioSampleRow{
		sample(2.5, 1.8),
		sample(2.6, 1.8),
		sample(2.4, 1.8),
	})

	bucket, ok := model.Buckets["1.8"]
	if !ok {
		t.Fatal("bucket 1.8 missing")
	}
	if bucket.Samples != 3 {
		t.Fatalf("samples = %d, want 3", bucket.Samples)
	}

	// Σhobbs / Σtach = 7.5 / 5.4
	wantAvg := 7.5 / 5.4
	if math.Abs(bucket.AvgRatio-wantAvg) > 1e-9 {
		t.Errorf("avg ratio = %v, want %v", bucket.AvgRatio, wantAvg)
	}

	// Median of the per-flight ratios is 2.5/1.8.
	wantMedian := 2.5 / 1.8
	if math.Abs(bucket.MedianRatio-wantMedian) > 1e-9 {
		t.Errorf("median ratio = %v, want %v", bucket.MedianRatio, wantMedian)
	}

	if bucket.Confidence != constants.RatioConfidenceLow {
		t.Errorf("confidence = %s, want LOW for 3 samples", bucket.Confidence)
	}
}

func TestBuildRatioModel_SkipsNonPositiveRows(t *testing.T) {
	model := BuildRatioModel([]repositories.RatioSampleRow{
		sample(2.5, 1.8),
		sample(0, 1.2),
		sample(1.5, 0),
		sample(-1.0, 1.0),
	})

	if model.TotalSamples != 1 {
		t.Errorf("total samples = %d, want 1", model.TotalSamples)
	}
}

func TestExpectedRatio_ThinBucketFallsBackToGlobal(t *testing.T) {
	// Bucket 1.8 holds only two samples; bucket 1.0 holds three.
	model := BuildRatioModel([]repositories.RatioSampleRow{
		sample(2.5, 1.8),
		sample(2.6, 1.8),
		sample(1.2, 1.0),
		sample(1.3, 1.0),
		sample(1.1, 1.0),
	})

	ratio, bucketKey, _, usedFallback := model.ExpectedRatio(1.85)
	if bucketKey != "1.8" {
		t.Fatalf("bucket = %s, want 1.8", bucketKey)
	}
	if !usedFallback {
		t.Error("two samples should fall back to the global ratio")
	}
	if math.Abs(ratio-model.GlobalRatio) > 1e-9 {
		t.Errorf("ratio = %v, want global %v", ratio, model.GlobalRatio)
	}

	ratio, _, _, usedFallback = model.ExpectedRatio(1.0)
	if usedFallback {
		t.Error("three samples should use the bucket ratio")
	}
	wantBucketRatio := 3.6 / 3.0
	if math.Abs(ratio-wantBucketRatio) > 1e-9 {
		t.Errorf("ratio = %v, want %v", ratio, wantBucketRatio)
	}
}

func TestExpectedRatio_UnknownBucketUsesGlobal(t *testing.T) {
	model := BuildRatioModel([]repositories.RatioSampleRow{
		sample(1.2, 1.0),
		sample(1.3, 1.0),
		sample(1.1, 1.0),
	})

	ratio, bucketKey, confidence, usedFallback := model.ExpectedRatio(3.0)
	if bucketKey != "3.0" {
		t.Errorf("bucket = %s, want 3.0", bucketKey)
	}
	if !usedFallback {
		t.Error("empty bucket must use the global fallback")
	}
	if confidence != constants.RatioConfidenceLow {
		t.Errorf("confidence = %s, want LOW", confidence)
	}
	if math.Abs(ratio-model.GlobalRatio) > 1e-9 {
		t.Errorf("ratio = %v, want global %v", ratio, model.GlobalRatio)
	}
}

func TestPredict_RoundsToOneDecimal(t *testing.T) {
	model := BuildRatioModel([]repositories.RatioSampleRow{
		sample(2.5, 1.8),
		sample(2.5, 1.8),
		sample(2.5, 1.8),
	})

	// 1.8 * (2.5/1.8) = 2.5 exactly
	if got := model.Predict(1.8); got != 2.5 {
		t.Errorf("Predict(1.8) = %v, want 2.5", got)
	}

	// 1.85 * 1.3888... = 2.569..., rounds to 2.6
	if got := model.Predict(1.85); got != 2.6 {
		t.Errorf("Predict(1.85) = %v, want 2.6", got)
	}
}

func TestConfidenceLabels(t *testing.T) {
	samples := make([]repositories.RatioSampleRow, 0, 20)
	for i := 0; i < 20; i++ {
		samples = append(samples, sample(2.5, 1.8))
	}
	model := BuildRatioModel(samples)
	if model.Buckets["1.8"].Confidence != constants.RatioConfidenceHigh {
		t.Errorf("20 samples should be HIGH, got %s", model.Buckets["1.8"].Confidence)
	}

	model = BuildRatioModel(samples[:10])
	if model.Buckets["1.8"].Confidence != constants.RatioConfidenceMedium {
		t.Errorf("10 samples should be MEDIUM, got %s", model.Buckets["1.8"].Confidence)
	}

	model = BuildRatioModel(samples[:9])
	if model.Buckets["1.8"].Confidence != constants.RatioConfidenceLow {
		t.Errorf("9 samples should be LOW, got %s", model.Buckets["1.8"].Confidence)
	}
}

func TestAcceptableBand(t *testing.T) {
	cases := []struct {
		diffTach  float64
		low, high float64
	}{
		{0.5, 1.00, 2.00},
		{1.5, 1.00, 1.70},
		{2.0, 1.00, 1.40},
		{4.0, 1.00, 1.40},
	}

	for _, tc := range cases {
		low, high := AcceptableBand(tc.diffTach)
		if low != tc.low || high != tc.high {
			t.Errorf("AcceptableBand(%v) = (%v, %v), want (%v, %v)",
				tc.diffTach, low, high, tc.low, tc.high)
		}
	}
}
