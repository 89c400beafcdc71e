// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// PageRequest selects a page. Zero values mean page 1 of 20.
type PageRequest struct {
	Page     int
	PageSize int
}

// Farm is a registered plot.
type Farm struct {
	ID                  int64      `json:"id,omitempty"`
	Name                string     `json:"name,omitempty"`
	CropType            string     `json:"crop_type"`
	AreaName            string     `json:"area_name"`
	Region              string     `json:"region,omitempty"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	PlantingDate        string     `json:"planting_date,omitempty"`
	ExpectedHarvestDate string     `json:"expected_harvest_date,omitempty"`
	FarmSizeAcres       float64    `json:"farm_size_acres,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

// Detection is one disease analysis of an uploaded crop image.
type Detection struct {
	ID              int64      `json:"id,omitempty"`
	Farm            int64      `json:"farm"`
	ImageKey        string     `json:"image_key,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	DetectedDisease string     `json:"detected_disease,omitempty"`
	Severity        string     `json:"severity,omitempty"`
	ConfidenceScore float64    `json:"confidence_score,omitempty"`
	PossibleCause   string     `json:"possible_cause,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	IsConfirmed     *bool      `json:"is_confirmed,omitempty"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty"`
}

// DetectionConfirmation is the body of POST /detections/{id}/confirm/.
type DetectionConfirmation struct {
	IsCorrect bool `json:"is_correct"`
}

// DetectionFeedback is the body of POST /detections/{id}/feedback/.
type DetectionFeedback struct {
	Rating          int    `json:"rating,omitempty"`
	Comment         string `json:"comment,omitempty"`
	ActualDisease   string `json:"actual_disease,omitempty"`
	TreatmentWorked *bool  `json:"treatment_worked,omitempty"`
}

// Weather is a weather observation for a farm.
type Weather struct {
	ID          int64      `json:"id,omitempty"`
	Farm        int64      `json:"farm,omitempty"`
	Temperature float64    `json:"temperature"`
	Humidity    float64    `json:"humidity"`
	Rainfall    float64    `json:"rainfall"`
	WindSpeed   float64    `json:"wind_speed,omitempty"`
	Condition   string     `json:"condition,omitempty"`
	RecordedAt  *time.Time `json:"recorded_at,omitempty"`
}

// Alert is a notification raised for a farm.
type Alert struct {
	ID        int64      `json:"id,omitempty"`
	Farm      int64      `json:"farm,omitempty"`
	AlertType string     `json:"alert_type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// MarketPrice is a crop price quote.
type MarketPrice struct {
	ID         int64      `json:"id,omitempty"`
	Crop       string     `json:"crop"`
	Market     string     `json:"market"`
	Price      float64    `json:"price"`
	Unit       string     `json:"unit,omitempty"`
	ChangePct  float64    `json:"change_percentage,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// Recommendation is an advisory action suggested for a farm.
type Recommendation struct {
	ID          int64      `json:"id,omitempty"`
	Farm        int64      `json:"farm,omitempty"`
	Category    string     `json:"category,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	IsApplied   bool       `json:"is_applied"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
