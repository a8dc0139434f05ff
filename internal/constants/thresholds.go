package constants

const (
	// AutoApprovalConfidence is the fixed OCR gate threshold. Every image in a
	// submission must reach it for unattended commit.
	AutoApprovalConfidence = 85

	// ManualValidationConfidence is forced onto images a human has corrected.
	ManualValidationConfidence = 100

	// Ratio predictor bucketing and sample requirements.
	RatioBucketWidth      = 0.1
	RatioBucketCap        = 5.0
	RatioMinBucketSamples = 3
	RatioHighSamples      = 20
	RatioMediumSamples    = 10

	// OverhaulBackfillChunkSize bounds each backfill transaction so a long
	// history never holds locks for the full rewrite.
	OverhaulBackfillChunkSize = 500
)

// Predictor confidence labels
const (
	RatioConfidenceHigh   = "HIGH"
	RatioConfidenceMedium = "MEDIUM"
	RatioConfidenceLow    = "LOW"
)
