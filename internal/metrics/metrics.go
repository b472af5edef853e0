package metrics

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("out of range")
)

// Sex is the profile sex as stored in the users table.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Mifflin-St Jeor sex constants. SexOther uses the mean of male and female.
const (
	bmrConstMale   = 5.0
	bmrConstFemale = -161.0
	bmrConstOther  = -78.0
)

// Activity factors for TDEE. Unknown or unset levels fall back to low.
const (
	factorLow    = 1.2
	factorMedium = 1.55
	factorHigh   = 1.725
)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BMI computes weight(kg) / height(m)^2, rounded to 2 decimals.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm <= 0 {
		return 0, fmt.Errorf("%w: height_cm must be greater than 0", ErrInvalidInput)
	}
	heightM := heightCm / 100.0
	return Round2(weightKg / (heightM * heightM)), nil
}

// AgeOnDate returns the number of whole calendar years between birth and on.
// The result is symmetric: swapping the arguments gives the same value.
func AgeOnDate(birth, on time.Time) int {
	if birth.After(on) {
		birth, on = on, birth
	}
	years := on.Year() - birth.Year()
	if on.Before(birth.AddDate(years, 0, 0)) {
		years--
	}
	return years
}

func bmrConst(sex Sex) float64 {
	switch sex {
	case SexMale:
		return bmrConstMale
	case SexFemale:
		return bmrConstFemale
	default:
		return bmrConstOther
	}
}

// BMR computes the basal metabolic rate via Mifflin-St Jeor, rounded to
// 2 decimals. Sexes other than male/female use the mean of the two formulas.
func BMR(sex Sex, weightKg, heightCm float64, age int) float64 {
	return Round2(10*weightKg + 6.25*heightCm - 5*float64(age) + bmrConst(sex))
}

// TDEE scales a BMR by an activity factor, rounded to 2 decimals.
func TDEE(bmr, activityFactor float64) float64 {
	return Round2(bmr * activityFactor)
}

// ActivityFactor maps an activity level to its TDEE multiplier. Empty and
// unrecognised levels use the low factor; that is the default policy, not
// an error.
func ActivityFactor(level string) float64 {
	switch level {
	case "medium":
		return factorMedium
	case "high":
		return factorHigh
	default:
		return factorLow
	}
}

// WeightFromBMR inverts the Mifflin-St Jeor formula:
//
//	bmr = 10*w + 6.25*h - 5*age + C  =>  w = (bmr - 6.25*h + 5*age - C) / 10
//
// Returns ok=false when the result is non-finite or not positive.
func WeightFromBMR(sex Sex, bmr, heightCm float64, age int) (float64, bool) {
	w := (bmr - 6.25*heightCm + 5*float64(age) - bmrConst(sex)) / 10.0
	if math.IsInf(w, 0) || math.IsNaN(w) || w <= 0 {
		return 0, false
	}
	return Round2(w), true
}

// Profile is the projection of a user row the formulas need. Nil fields mean
// the user has not filled them in yet.
type Profile struct {
	Sex           *Sex
	BirthDate     *time.Time
	HeightCm      *float64
	ActivityLevel string
}

// CanDeriveEnergy reports whether BMR/TDEE can be computed at all: both sex
// and birth date must be set.
func (p Profile) CanDeriveEnergy() bool {
	return p.Sex != nil && p.BirthDate != nil
}

// EnergyMetrics computes BMR and TDEE for the given body measurements, with
// age taken as of asOf. Both results are nil when the profile lacks sex or
// birth date; they are never partially populated.
func EnergyMetrics(p Profile, weightKg, heightCm float64, asOf time.Time) (bmr, tdee *float64) {
	if !p.CanDeriveEnergy() {
		return nil, nil
	}
	age := AgeOnDate(*p.BirthDate, asOf)
	b := BMR(*p.Sex, weightKg, heightCm, age)
	t := TDEE(b, ActivityFactor(p.ActivityLevel))
	return &b, &t
}
