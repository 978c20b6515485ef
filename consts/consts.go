package consts

import "time"

const (
	// DefaultSearchRadius is the hospital search radius in meters.
	DefaultSearchRadius = 5000
	// MaxFacilityResults caps the number of hospitals attached to an assessment.
	MaxFacilityResults = 5

	UpstreamTimeout = 10 * time.Second
	LLMTimeout      = 60 * time.Second

	// UnknownLocation is sent to the model when no city or country is known.
	UnknownLocation = "Unknown"

	DefaultVoice = "alloy"

	// The speech service rejects input above 4096 characters.
	MaxSpeechLength = 4000
	SpeechTruncated = "... Assessment truncated for audio."
)
