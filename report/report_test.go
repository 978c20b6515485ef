package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/tts"
	"github.com/bitmark-inc/medassist-api/utils"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	require.NoError(t, LoadLocales(""))
	r, err := NewRenderer("en")
	require.NoError(t, err)
	return r
}

func TestNewRendererLoadsBuiltinMessages(t *testing.T) {
	r, err := NewRenderer("en")
	require.NoError(t, err)
	require.True(t, utils.I18NReady())

	out, err := r.Render(&schema.ConditionAssessment{
		ConditionType:      schema.ConditionRespiratory,
		Severity:           schema.SeverityLow,
		Confidence:         0.5,
		RecommendedActions: []string{"Rest"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Rest")
}

func TestRenderUrgent(t *testing.T) {
	a := &schema.ConditionAssessment{
		ConditionType:      schema.ConditionCardiac,
		Severity:           schema.SeverityCritical,
		Confidence:         0.85,
		RedFlags:           []string{"chest pain radiating to left arm"},
		RecommendedActions: []string{"Call emergency services now", "Chew aspirin"},
		NearestHospitals: []schema.Facility{
			{
				Name:             utils.Ptr("Bellevue Hospital"),
				Address:          utils.Ptr("462 1st Avenue, New York"),
				Rating:           utils.Ptr(4.3),
				UserRatingsTotal: utils.Ptr(1200),
				Location:         &schema.LatLng{Lat: 40.739, Lng: -73.975},
				PlaceID:          utils.Ptr("ChIJ123"),
				MapsURL:          utils.Ptr("https://www.google.com/maps/place/?q=place_id:ChIJ123"),
				OpenNow:          utils.Ptr(true),
			},
			{},
		},
		WeatherContext: &schema.Weather{TempC: utils.Ptr(21.5), Description: utils.Ptr("clear sky")},
	}

	s, err := newRenderer(t).Render(a)
	require.NoError(t, err)

	for _, want := range []string{
		"🚨 **URGENT MEDICAL ASSESSMENT** 🚨\n\n",
		"**Condition Type:** Cardiac\n",
		"**Severity Level:** CRITICAL\n",
		"**AI Confidence:** 85.0%\n\n",
		"⚠️ **Critical Warning Signs Detected:**\n• chest pain radiating to left arm\n\n",
		"🚨 **Immediate Actions Required:**\n1. Call emergency services now\n2. Chew aspirin\n\n",
		"**1. Bellevue Hospital** (4.3★) - 1200 reviews\n",
		"   📍 **Address:** 462 1st Avenue, New York\n",
		"   ⏰ **Status:** 🟢 Open Now\n",
		"[Open in Google Maps](https://www.google.com/maps/place/?q=place_id:ChIJ123)",
		"[Get Directions](https://www.google.com/maps/dir/?api=1&destination=40.739,-73.975)",
		"query_place_id=ChIJ123",
		"**2. Unknown Hospital**\n   📍 **Address:** Address not available\n\n",
		"🌡️ **Local Weather:** 21.5°C, clear sky\n",
		"🚨 **EMERGENCY GUIDANCE:**\n",
		"---\n💡 **Disclaimer:**",
	} {
		assert.Contains(t, s, want)
	}
	assert.NotContains(t, s, "Self-Care")
}

func TestRenderModerate(t *testing.T) {
	a := &schema.ConditionAssessment{
		ConditionType:      schema.ConditionGastrointestinal,
		Severity:           schema.SeverityModerate,
		Confidence:         0.5,
		RedFlags:           []string{},
		RecommendedActions: []string{"Stay hydrated"},
		SelfCareAdvice:     utils.Ptr("Eat bland food."),
	}

	s, err := newRenderer(t).Render(a)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "🏥 **Medical Assessment Results**\n\n"))
	assert.Contains(t, s, "**Condition Type:** Gastrointestinal\n")
	assert.Contains(t, s, "🩹 **Self-Care Guidance:**\nEat bland food.\n\n")
	assert.Contains(t, s, "⚠️ **Medical Attention Recommended:**\n")
	assert.NotContains(t, s, "Critical Warning Signs")
	assert.NotContains(t, s, "Nearest Hospitals")
	assert.NotContains(t, s, "Local Weather")
}

func TestRenderLow(t *testing.T) {
	s, err := newRenderer(t).Render(&schema.ConditionAssessment{
		ConditionType: schema.ConditionAllergic,
		Severity:      schema.SeverityLow,
	})
	require.NoError(t, err)
	assert.NotContains(t, s, "GUIDANCE")
	assert.NotContains(t, s, "Medical Attention Recommended")
	assert.Contains(t, s, "**AI Confidence:** 0.0%")
}

func TestRenderIsSpeakable(t *testing.T) {
	s, err := newRenderer(t).Render(&schema.ConditionAssessment{
		ConditionType:      schema.ConditionRespiratory,
		Severity:           schema.SeverityHigh,
		Confidence:         0.6,
		RedFlags:           []string{"lips turning blue"},
		RecommendedActions: []string{"Call 911"},
	})
	require.NoError(t, err)

	speech, err := tts.Sanitize(s)
	require.NoError(t, err)
	assert.NotContains(t, speech, "**")
	assert.Contains(t, speech, "Alert: ")
	assert.Contains(t, speech, "60.0 percent")
}
