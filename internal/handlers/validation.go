package handlers

import "time"

const dateLayout = "2006-01-02"

var allowedSexes = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

var allowedActivityLevels = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// parseDate accepts calendar dates only, no time component.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

type profileRequest struct {
	BirthDate     *string  `json:"birth_date"`
	Sex           *string  `json:"sex"`
	HeightCm      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
}

// validateProfileRequest returns an empty string when the request is valid,
// otherwise a message suitable for the response body.
func validateProfileRequest(req profileRequest) string {
	if req.BirthDate != nil {
		if _, err := parseDate(*req.BirthDate); err != nil {
			return "birth_date must be a date in YYYY-MM-DD format"
		}
	}
	if req.Sex != nil && !allowedSexes[*req.Sex] {
		return "sex must be one of male, female, other"
	}
	if req.HeightCm != nil && (*req.HeightCm <= 0 || *req.HeightCm > 300) {
		return "height_cm must be greater than 0 and at most 300"
	}
	if req.ActivityLevel != nil && !allowedActivityLevels[*req.ActivityLevel] {
		return "activity_level must be one of low, medium, high"
	}
	return ""
}

type recordRequest struct {
	RecordDate string   `json:"record_date"`
	HeightCm   *float64 `json:"height_cm"`
	WeightKg   *float64 `json:"weight_kg"`
	Memo       *string  `json:"memo"`
}

func validateRecordRequest(req recordRequest) string {
	if req.RecordDate == "" {
		return "record_date is required"
	}
	if _, err := parseDate(req.RecordDate); err != nil {
		return "record_date must be a date in YYYY-MM-DD format"
	}
	if req.WeightKg == nil {
		return "weight_kg is required"
	}
	return ""
}
