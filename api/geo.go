package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/medassist-api/schema"
)

const geoPositionHeader = "Geo-Position"

// parseGeoPosition will parse latitude and longitude from the geo-position string
func parseGeoPosition(geoPosition string) (float64, float64, error) {
	positions := strings.Split(geoPosition, ";")

	if len(positions) != 2 {
		return 0, 0, fmt.Errorf("invalid geo-position value")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(positions[0]), 64)
	if err != nil {
		return 0, 0, err
	}

	long, err := strconv.ParseFloat(strings.TrimSpace(positions[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	if lat < -90 || lat > 90 || long < -180 || long > 180 {
		return 0, 0, fmt.Errorf("geo-position out of range")
	}

	return lat, long, nil
}

// applyGeoPosition fills missing coordinates of the request from the
// Geo-Position header. Coordinates in the body always win.
func applyGeoPosition(c *gin.Context, params *schema.SymptomInput) {
	gp := c.GetHeader(geoPositionHeader)
	if gp == "" {
		return
	}
	if _, ok := params.Coordinates(); ok {
		return
	}

	lat, long, err := parseGeoPosition(gp)
	if err != nil {
		log.WithField("geo_position", gp).WithError(err).Warn("ignore geo-position header")
		return
	}

	if params.User == nil {
		params.User = &schema.UserContext{}
	}
	params.User.Latitude = &lat
	params.User.Longitude = &long
}
