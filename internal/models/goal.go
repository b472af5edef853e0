package models

import "time"

// Goal maps to the goals table: at most one row per user. After a solver
// edit all set fields are mutually consistent under the profile used at edit
// time; a later profile change does not re-solve an existing goal.
type Goal struct {
	UserID         int64     `json:"user_id"`
	TargetWeightKg *float64  `json:"target_weight_kg"`
	TargetBMI      *float64  `json:"target_bmi"`
	TargetBMR      *float64  `json:"target_bmr"`
	TargetTDEE     *float64  `json:"target_tdee"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
