package metrics

import (
	"fmt"
	"time"
)

// EditField selects which goal value the user edited directly; the solver
// derives the other three from it.
type EditField string

const (
	EditWeight EditField = "weight"
	EditBMI    EditField = "bmi"
	EditBMR    EditField = "bmr"
	EditTDEE   EditField = "tdee"
)

// ParseEditField validates an edit_field value. An empty string defaults to
// weight, matching the goal form's preselected radio button.
func ParseEditField(s string) (EditField, error) {
	switch EditField(s) {
	case "":
		return EditWeight, nil
	case EditWeight, EditBMI, EditBMR, EditTDEE:
		return EditField(s), nil
	default:
		return "", fmt.Errorf("%w: edit_field must be one of: weight, bmi, bmr, tdee", ErrInvalidInput)
	}
}

// GoalTargets holds the four goal values. Nil means the solver could not
// derive the field from the available profile data.
type GoalTargets struct {
	WeightKg *float64
	BMI      *float64
	BMR      *float64
	TDEE     *float64
}

// SolveGoal derives goal values from a single edited field using the current
// profile. Age is computed against now, not a record date. Fields the
// profile cannot support stay nil; the caller decides what happens to any
// previously stored values.
func SolveGoal(p Profile, field EditField, value float64, now time.Time) (GoalTargets, error) {
	var t GoalTargets

	switch field {
	case EditWeight:
		t.WeightKg = &value
		solveFromWeight(p, value, now, &t)

	case EditBMI:
		t.BMI = &value
		if p.HeightCm == nil {
			break
		}
		heightM := *p.HeightCm / 100.0
		w := Round2(value * heightM * heightM)
		t.WeightKg = &w
		solveFromWeight(p, w, now, &t)

	case EditBMR:
		t.BMR = &value
		if p.HeightCm == nil || !p.CanDeriveEnergy() {
			break
		}
		age := AgeOnDate(*p.BirthDate, now)
		w, ok := WeightFromBMR(*p.Sex, value, *p.HeightCm, age)
		if !ok {
			break
		}
		t.WeightKg = &w
		bmi, err := BMI(w, *p.HeightCm)
		if err != nil {
			return GoalTargets{}, err
		}
		t.BMI = &bmi
		// TDEE comes from the edited BMR directly, not a re-derived one.
		tdee := TDEE(value, ActivityFactor(p.ActivityLevel))
		t.TDEE = &tdee

	case EditTDEE:
		t.TDEE = &value
		if p.HeightCm == nil || !p.CanDeriveEnergy() {
			break
		}
		factor := ActivityFactor(p.ActivityLevel)
		bmrVal := value / factor
		bmr := Round2(bmrVal)
		t.BMR = &bmr
		age := AgeOnDate(*p.BirthDate, now)
		w, ok := WeightFromBMR(*p.Sex, bmrVal, *p.HeightCm, age)
		if !ok {
			break
		}
		t.WeightKg = &w
		bmi, err := BMI(w, *p.HeightCm)
		if err != nil {
			return GoalTargets{}, err
		}
		t.BMI = &bmi

	default:
		return GoalTargets{}, fmt.Errorf("%w: unknown edit field %q", ErrInvalidInput, field)
	}

	return t, nil
}

// solveFromWeight fills BMI, BMR and TDEE from a known weight: BMI when the
// height is set, BMR/TDEE when sex and birth date are set as well.
func solveFromWeight(p Profile, weightKg float64, now time.Time, t *GoalTargets) {
	if p.HeightCm == nil {
		return
	}
	if bmi, err := BMI(weightKg, *p.HeightCm); err == nil {
		t.BMI = &bmi
	}
	bmr, tdee := EnergyMetrics(p, weightKg, *p.HeightCm, now)
	if bmr != nil {
		t.BMR = bmr
		t.TDEE = tdee
	}
}

// Goal value bounds. Weight excludes the lower bound; the other three are
// inclusive on both ends.
const (
	minGoalWeightKg = 2.0
	maxGoalWeightKg = 1000.0
	minGoalBMI      = 10.0
	maxGoalBMI      = 60.0
	minGoalBMR      = 100.0
	maxGoalBMR      = 5000.0
	minGoalTDEE     = 100.0
	maxGoalTDEE     = 10000.0
)

// Validate checks every set field against its documented bounds. The first
// violation is returned wrapped in ErrOutOfRange; callers must not persist
// anything when it fails.
func (t GoalTargets) Validate() error {
	if t.WeightKg != nil && (*t.WeightKg <= minGoalWeightKg || *t.WeightKg > maxGoalWeightKg) {
		return fmt.Errorf("%w: target_weight_kg must be greater than %.1f and at most %.1f",
			ErrOutOfRange, minGoalWeightKg, maxGoalWeightKg)
	}
	if t.BMI != nil && (*t.BMI < minGoalBMI || *t.BMI > maxGoalBMI) {
		return fmt.Errorf("%w: target_bmi must be between %.1f and %.1f",
			ErrOutOfRange, minGoalBMI, maxGoalBMI)
	}
	if t.BMR != nil && (*t.BMR < minGoalBMR || *t.BMR > maxGoalBMR) {
		return fmt.Errorf("%w: target_bmr must be between %.1f and %.1f kcal/day",
			ErrOutOfRange, minGoalBMR, maxGoalBMR)
	}
	if t.TDEE != nil && (*t.TDEE < minGoalTDEE || *t.TDEE > maxGoalTDEE) {
		return fmt.Errorf("%w: target_tdee must be between %.1f and %.1f kcal/day",
			ErrOutOfRange, minGoalTDEE, maxGoalTDEE)
	}
	return nil
}
