// Package report renders an assessment into the markdown summary shown to the
// user and narrated by the speech endpoint.
package report

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/utils"
)

const (
	directionsURL = "https://www.google.com/maps/dir/?api=1&destination=%s,%s"
	placeURL      = "https://www.google.com/maps/search/?api=1&query=Google&query_place_id=%s"
)

//go:embed locales/*.yaml
var locales embed.FS

// LoadLocales initializes the message bundle from dir, or from the built-in
// messages when dir is empty.
func LoadLocales(dir string) error {
	if dir != "" {
		return utils.InitI18NBundle(os.DirFS(dir))
	}
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return err
	}
	return utils.InitI18NBundle(sub)
}

// Renderer writes summaries in one language.
type Renderer struct {
	localizer *i18n.Localizer
}

// NewRenderer returns a renderer for lang. The built-in messages are loaded
// when no bundle has been initialized yet.
func NewRenderer(lang string) (*Renderer, error) {
	if !utils.I18NReady() {
		if err := LoadLocales(""); err != nil {
			return nil, err
		}
	}
	return &Renderer{
		localizer: utils.NewLocalizer(lang),
	}, nil
}

type builder struct {
	r   *Renderer
	b   strings.Builder
	err error
}

func (w *builder) text(id string, data map[string]interface{}) string {
	if w.err != nil {
		return ""
	}
	s, err := w.r.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		w.err = err
	}
	return s
}

func (w *builder) write(parts ...string) {
	for _, p := range parts {
		w.b.WriteString(p)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Render returns the markdown summary of an assessment.
func (r *Renderer) Render(a *schema.ConditionAssessment) (string, error) {
	w := &builder{r: r}

	severity := strings.ToUpper(string(a.Severity))
	condition := cases.Title(language.English).String(strings.ReplaceAll(string(a.ConditionType), "_", " "))

	if a.Severity.Urgent() {
		w.write(w.text("report.header.urgent", nil), "\n\n")
	} else {
		w.write(w.text("report.header.normal", nil), "\n\n")
	}

	w.write(
		w.text("report.condition", map[string]interface{}{"Condition": condition}), "\n",
		w.text("report.severity", map[string]interface{}{"Severity": severity}), "\n",
		w.text("report.confidence", map[string]interface{}{"Confidence": fmt.Sprintf("%.1f", a.Confidence*100)}), "\n\n",
	)

	if len(a.RedFlags) > 0 {
		w.write(w.text("report.red_flags", nil), "\n")
		for _, flag := range a.RedFlags {
			w.write("• ", flag, "\n")
		}
		w.write("\n")
	}

	if len(a.RecommendedActions) > 0 {
		w.write(w.text("report.actions", nil), "\n")
		for i, action := range a.RecommendedActions {
			w.write(strconv.Itoa(i+1), ". ", action, "\n")
		}
		w.write("\n")
	}

	if advice := utils.Value(a.SelfCareAdvice); advice != "" {
		w.write(w.text("report.self_care", nil), "\n", advice, "\n\n")
	}

	if len(a.NearestHospitals) > 0 {
		w.write(w.text("report.hospitals.title", nil), "\n\n")
		for i, h := range a.NearestHospitals {
			if i == consts.MaxFacilityResults {
				break
			}
			r.hospital(w, i+1, h)
		}
		w.write(w.text("report.hospitals.more", nil), "\n\n")
	}

	if wc := a.WeatherContext; wc != nil && wc.TempC != nil {
		w.write(
			w.text("report.weather.line", map[string]interface{}{
				"Temperature": formatFloat(*wc.TempC),
				"Description": utils.Value(wc.Description),
			}), "\n",
			w.text("report.weather.note", nil), "\n\n",
		)
	}

	switch {
	case a.Severity.Urgent():
		w.write(w.text("report.guidance.urgent", nil), "\n\n")
	case a.Severity == schema.SeverityModerate:
		w.write(w.text("report.guidance.moderate", nil), "\n\n")
	}

	w.write("---\n", w.text("report.disclaimer", nil))

	if w.err != nil {
		return "", w.err
	}
	return w.b.String(), nil
}

func (r *Renderer) hospital(w *builder, n int, h schema.Facility) {
	name := utils.Value(h.Name)
	if name == "" {
		name = w.text("report.hospitals.unknown_name", nil)
	}
	address := utils.Value(h.Address)
	if address == "" {
		address = w.text("report.hospitals.unknown_address", nil)
	}

	w.write("**", strconv.Itoa(n), ". ", name, "**")
	if h.Rating != nil {
		w.write(" (", formatFloat(*h.Rating), "★)")
	}
	if h.UserRatingsTotal != nil && *h.UserRatingsTotal > 0 {
		w.write(" - ", w.text("report.hospitals.reviews", map[string]interface{}{"Count": *h.UserRatingsTotal}))
	}
	w.write("\n")

	w.write("   ", w.text("report.hospitals.address", map[string]interface{}{"Address": address}), "\n")

	if h.OpenNow != nil {
		if *h.OpenNow {
			w.write("   ", w.text("report.hospitals.open", nil), "\n")
		} else {
			w.write("   ", w.text("report.hospitals.closed", nil), "\n")
		}
	}

	if u := utils.Value(h.MapsURL); u != "" {
		w.write("   ", w.text("report.hospitals.maps", map[string]interface{}{"URL": u}), "\n")
	}

	if h.Location != nil {
		u := fmt.Sprintf(directionsURL, formatFloat(h.Location.Lat), formatFloat(h.Location.Lng))
		w.write("   ", w.text("report.hospitals.directions", map[string]interface{}{"URL": u}), "\n")

		if id := utils.Value(h.PlaceID); id != "" {
			w.write("   ", w.text("report.hospitals.details", map[string]interface{}{"URL": fmt.Sprintf(placeURL, id)}), "\n")
		}
	}

	w.write("\n")
}
