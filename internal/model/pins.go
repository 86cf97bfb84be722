package model

import (
	"time"

	"github.com/google/uuid"
)

// Main categories and their sub types. The same table drives the server-side
// enum checks and the board's dependent sub type selector, so the two cannot
// drift apart.
var SubTypesByCategory = map[string][]string{
	"Hazard":   {"Fire", "Flood", "Earthquake", "Chemical Leak", "Landslide", "Storm"},
	"Impact":   {"Injury", "Damage", "Power Outage", "Blocked Road"},
	"Resource": {"Shelter", "Medical Aid", "Food/Water", "Rescue Team"},
	"Alert":    {"Evacuation", "Missing Person", "Verified Info", "Safety Tip"},
}

var MainCategories = []string{"Hazard", "Impact", "Resource", "Alert"}

// DefaultStatus is set on every new pin and never transitioned afterwards.
const DefaultStatus = "Active"

func IsMainCategory(s string) bool {
	_, ok := SubTypesByCategory[s]
	return ok
}

// IsSubType checks membership in the global sub type set. Pairing with the
// main category is intentionally not checked, the selector table owns that.
func IsSubType(s string) bool {
	for _, subs := range SubTypesByCategory {
		for _, sub := range subs {
			if sub == s {
				return true
			}
		}
	}
	return false
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude],
// in that order, always.
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2,dive,finite"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

type Pin struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	MainCategory string    `json:"mainCategory"`
	SubType      string    `json:"subType"`
	Status       string    `json:"status"`
	Votes        int       `json:"votes"`
	ImageData    *string   `json:"imageData,omitempty"`
	Location     GeoPoint  `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreatePinRequest struct {
	MainCategory string   `json:"mainCategory" validate:"required,maincategory"`
	SubType      string   `json:"subType" validate:"required,subtype"`
	Title        string   `json:"title" validate:"max=100"`
	ImageData    *string  `json:"imageData"`
	Location     GeoPoint `json:"location"`
}

type VoteRequest struct {
	Vote int `json:"vote"`
}

// ListPinsParams are the resolved query parameters for a list call, after
// defaults and caps have been applied.
type ListPinsParams struct {
	Page         int
	Limit        int
	MainCategory string
	SubType      string
}

type PinList struct {
	Pins  []Pin `json:"pins"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int   `json:"total"`
}

type NearbyPinsParams struct {
	Longitude   float64
	Latitude    float64
	MaxDistance int
}

type Summary struct {
	TotalPins      int            `json:"totalPins"`
	ByMainCategory map[string]int `json:"byMainCategory"`
	BySubType      map[string]int `json:"bySubType"`
	AvgVotes       float64        `json:"avgVotes"`
}
