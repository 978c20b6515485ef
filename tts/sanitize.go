package tts

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/bitmark-inc/medassist-api/consts"
)

var (
	boldMarkup    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicMarkup  = regexp.MustCompile(`\*(.*?)\*`)
	headingMarker = regexp.MustCompile(`#{1,6}\s*`)
	bulletGlyphs  = regexp.MustCompile(`[•▪▫‣⁃]`)
	newlines      = regexp.MustCompile(`\n+`)
	whitespace    = regexp.MustCompile(`[\s\p{Zs}]+`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	webURL        = regexp.MustCompile(`https?://[^\s]+`)
)

// substitutions are applied in order as plain replacements.
var substitutions = []struct {
	from, to string
}{
	{"🚨", "Alert: "},
	{"🏥", "Medical: "},
	{"📞", "Contact: "},
	{"⚠️", "Warning: "},
	{"🔍", "Analysis: "},
	{"👁️", "Watch for: "},
	{"🚫", "Do not: "},
	{"⏱️", "Time: "},
	{"🩹", "Self-care: "},
	{"🌡️", "Weather: "},
	{"📍", "Location: "},
	{"🗺️", "Maps: "},
	{"💡", "Note: "},
	{"⚕️", "Medical: "},
	{"N/A", "not available"},
	{"★", " stars"},
	{"%", " percent"},
	{"Dr.", "Doctor"},
	{"St.", "Street"},
	{"Ave.", "Avenue"},
	{"Rd.", "Road"},
	{"vs.", "versus"},
	{"etc.", "etcetera"},
	{"°C", " degrees Celsius"},
	{"°F", " degrees Fahrenheit"},
}

// Clean rewrites rendered assessment text into plain sentences a speech
// engine reads well.
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = boldMarkup.ReplaceAllString(text, "$1")
	text = italicMarkup.ReplaceAllString(text, "$1")
	text = headingMarker.ReplaceAllString(text, "")
	text = bulletGlyphs.ReplaceAllString(text, " ")
	text = newlines.ReplaceAllString(text, ". ")
	text = whitespace.ReplaceAllString(text, " ")

	for _, s := range substitutions {
		text = strings.ReplaceAll(text, s.from, s.to)
	}

	// links first so that their labels survive
	text = markdownLink.ReplaceAllString(text, "$1")
	text = webURL.ReplaceAllString(text, "web link")

	return strings.TrimSpace(text)
}

// Sanitize cleans text and bounds it to what the speech service accepts.
func Sanitize(text string) (string, error) {
	clean := Clean(text)

	if utf8.RuneCountInString(clean) > consts.MaxSpeechLength {
		clean = string([]rune(clean)[:consts.MaxSpeechLength]) + consts.SpeechTruncated
	}

	if !speakable(clean) {
		return "", ErrEmptyText
	}
	return clean, nil
}

// speakable reports whether text holds anything besides the punctuation and
// spaces left behind by Clean.
func speakable(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
