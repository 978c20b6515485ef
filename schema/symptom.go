package schema

import "strings"

// UserContext is the optional information a user shares along with the
// symptoms. Every field may be absent; absence means unknown.
type UserContext struct {
	Age       *int     `json:"age" binding:"omitempty,min=0"`
	Gender    *string  `json:"gender" binding:"omitempty,max=32"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Address   *string  `json:"address"`
	City      *string  `json:"city"`
	Country   *string  `json:"country"`
}

// Coordinates returns the user position when both latitude and longitude are
// present.
func (u *UserContext) Coordinates() (Location, bool) {
	if u == nil || u.Latitude == nil || u.Longitude == nil {
		return Location{}, false
	}
	return Location{Latitude: *u.Latitude, Longitude: *u.Longitude}, true
}

// SymptomInput is the request payload shared by analyze, hospitals and assist.
type SymptomInput struct {
	Symptoms string       `json:"symptoms" binding:"required"`
	User     *UserContext `json:"user"`
}

// Blank reports whether the symptom description carries no text at all.
func (s SymptomInput) Blank() bool {
	return strings.TrimSpace(s.Symptoms) == ""
}

// Coordinates is a shortcut to the user position.
func (s SymptomInput) Coordinates() (Location, bool) {
	return s.User.Coordinates()
}

// TTSRequest asks for the given text to be narrated.
type TTSRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}
