// Package tts narrates assessment text with the speech service.
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/medassist-api/consts"
)

const logPrefix = "tts"

var (
	ErrEmptyText        = errors.New("no text content to convert to speech")
	ErrUnsupportedVoice = errors.New("unsupported voice")
	ErrEmptyAudio       = errors.New("speech service returned no audio")
)

// Voices are the accepted voice selectors.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// SynthesisError carries a message fit for the caller.
type SynthesisError struct {
	Message string
	Err     error
}

func (e *SynthesisError) Error() string {
	return e.Message
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Speaker turns plain text into MP3 audio.
type Speaker interface {
	Speech(ctx context.Context, text, voice string) ([]byte, error)
}

type Synthesizer struct {
	speaker Speaker
}

func NewSynthesizer(speaker Speaker) *Synthesizer {
	return &Synthesizer{speaker: speaker}
}

// ResolveVoice returns the voice to use for a selector. Empty means default.
func ResolveVoice(voice string) (string, error) {
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice == "" {
		return consts.DefaultVoice, nil
	}
	for _, v := range Voices {
		if v == voice {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedVoice, voice)
}

// Synthesize sanitizes text and returns the complete MP3 audio of it.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	v, err := ResolveVoice(voice)
	if err != nil {
		return nil, err
	}

	clean, err := Sanitize(text)
	if err != nil {
		return nil, &SynthesisError{Message: "No text content to convert to speech", Err: err}
	}

	audio, err := s.speaker.Speech(ctx, clean, v)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"voice":  v,
			"chars":  len(clean),
			"error":  err,
		}).Error("synthesize speech")
		return nil, &SynthesisError{Message: fmt.Sprintf("TTS generation failed: %s", err), Err: err}
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{Message: "TTS generation failed: empty audio", Err: ErrEmptyAudio}
	}

	return audio, nil
}
