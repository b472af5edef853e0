package models

import "time"

// BodyRecord maps to the body_records table. bmi is always derived from the
// stored height/weight; bmr and tdee are set only while the owning profile
// has both sex and birth date, otherwise they are NULL. A user may have any
// number of records per date.
type BodyRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	RecordDate time.Time `json:"record_date"`
	HeightCm   float64   `json:"height_cm"`
	WeightKg   float64   `json:"weight_kg"`
	Memo       *string   `json:"memo"`
	BMI        *float64  `json:"bmi"`
	BMR        *float64  `json:"bmr"`
	TDEE       *float64  `json:"tdee"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
