package models

import "time"

// User maps to the users table. Profile fields are nil until the user fills
// them in via the profile settings; BMR/TDEE of body records depend on them.
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	BirthDate     *time.Time `json:"birth_date"`
	Sex           *string    `json:"sex"`
	HeightCm      *float64   `json:"height_cm"`
	ActivityLevel *string    `json:"activity_level"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Profile is the projection of a user row that metric computation needs.
type Profile struct {
	UserID        int64
	BirthDate     *time.Time
	Sex           *string
	HeightCm      *float64
	ActivityLevel *string
}
