package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeProfile() Profile {
	sex := SexMale
	birth := date(1990, time.January, 1)
	height := 175.0
	return Profile{Sex: &sex, BirthDate: &birth, HeightCm: &height, ActivityLevel: "medium"}
}

var solveNow = date(2025, time.June, 1) // age 35 against the test birth date

func TestParseEditField(t *testing.T) {
	field, err := ParseEditField("")
	require.NoError(t, err)
	assert.Equal(t, EditWeight, field, "empty selector defaults to weight")

	for _, s := range []string{"weight", "bmi", "bmr", "tdee"} {
		field, err := ParseEditField(s)
		require.NoError(t, err)
		assert.Equal(t, EditField(s), field)
	}

	_, err = ParseEditField("waist")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSolveGoalFromWeight(t *testing.T) {
	targets, err := SolveGoal(completeProfile(), EditWeight, 70.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.WeightKg)
	assert.Equal(t, 70.0, *targets.WeightKg)

	require.NotNil(t, targets.BMI)
	wantBMI, _ := BMI(70.0, 175.0)
	assert.Equal(t, wantBMI, *targets.BMI)

	require.NotNil(t, targets.BMR)
	assert.Equal(t, BMR(SexMale, 70, 175, 35), *targets.BMR)

	require.NotNil(t, targets.TDEE)
	assert.Equal(t, TDEE(*targets.BMR, 1.55), *targets.TDEE)
}

func TestSolveGoalFromBMI(t *testing.T) {
	targets, err := SolveGoal(completeProfile(), EditBMI, 22.86, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.WeightKg)
	// 22.86 * 1.75^2 = 70.008...
	assert.Equal(t, 70.01, *targets.WeightKg)

	// Re-deriving BMI from the solved weight must land back on the input
	// within rounding tolerance.
	require.NotNil(t, targets.BMI)
	back, _ := BMI(*targets.WeightKg, 175.0)
	assert.InDelta(t, 22.86, back, 0.01)

	require.NotNil(t, targets.BMR)
	require.NotNil(t, targets.TDEE)
}

func TestSolveGoalFromBMR(t *testing.T) {
	input := BMR(SexMale, 70, 175, 35)
	targets, err := SolveGoal(completeProfile(), EditBMR, input, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.BMR)
	assert.Equal(t, input, *targets.BMR)

	require.NotNil(t, targets.WeightKg)
	assert.InDelta(t, 70.0, *targets.WeightKg, 0.5)

	require.NotNil(t, targets.BMI)
	wantBMI, _ := BMI(*targets.WeightKg, 175.0)
	assert.Equal(t, wantBMI, *targets.BMI)

	// TDEE uses the edited BMR directly.
	require.NotNil(t, targets.TDEE)
	assert.Equal(t, TDEE(input, 1.55), *targets.TDEE)
}

func TestSolveGoalFromTDEE(t *testing.T) {
	bmr := BMR(SexMale, 70, 175, 35)
	input := TDEE(bmr, 1.55)
	targets, err := SolveGoal(completeProfile(), EditTDEE, input, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.TDEE)
	assert.Equal(t, input, *targets.TDEE)

	require.NotNil(t, targets.BMR)
	assert.InDelta(t, bmr, *targets.BMR, 0.01)

	require.NotNil(t, targets.WeightKg)
	assert.InDelta(t, 70.0, *targets.WeightKg, 0.5)

	require.NotNil(t, targets.BMI)
}

func TestSolveGoalWeightWithoutHeight(t *testing.T) {
	p := completeProfile()
	p.HeightCm = nil

	targets, err := SolveGoal(p, EditWeight, 70.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.WeightKg)
	assert.Nil(t, targets.BMI, "no height, no BMI")
	assert.Nil(t, targets.BMR)
	assert.Nil(t, targets.TDEE)
}

func TestSolveGoalWeightWithoutSex(t *testing.T) {
	p := completeProfile()
	p.Sex = nil

	targets, err := SolveGoal(p, EditWeight, 70.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.BMI, "height alone is enough for BMI")
	assert.Nil(t, targets.BMR)
	assert.Nil(t, targets.TDEE)
}

func TestSolveGoalBMIWithoutHeight(t *testing.T) {
	p := completeProfile()
	p.HeightCm = nil

	targets, err := SolveGoal(p, EditBMI, 22.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.BMI)
	assert.Nil(t, targets.WeightKg, "cannot invert BMI without height")
	assert.Nil(t, targets.BMR)
	assert.Nil(t, targets.TDEE)
}

func TestSolveGoalBMRRequiresFullProfile(t *testing.T) {
	p := completeProfile()
	p.BirthDate = nil

	targets, err := SolveGoal(p, EditBMR, 1600.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.BMR)
	assert.Nil(t, targets.WeightKg)
	assert.Nil(t, targets.BMI)
	assert.Nil(t, targets.TDEE)
}

func TestSolveGoalBMRImplausiblyLow(t *testing.T) {
	// Inverts to a negative weight; only the edited field survives.
	targets, err := SolveGoal(completeProfile(), EditBMR, 100.0, solveNow)
	require.NoError(t, err)

	require.NotNil(t, targets.BMR)
	assert.Nil(t, targets.WeightKg)
	assert.Nil(t, targets.TDEE)
}

func TestValidateBounds(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.NoError(t, GoalTargets{}.Validate(), "nothing set, nothing to check")
	assert.NoError(t, GoalTargets{WeightKg: f(65.5), BMI: f(22.5), BMR: f(1500), TDEE: f(2000)}.Validate())
	assert.NoError(t, GoalTargets{WeightKg: f(1000), BMI: f(10), TDEE: f(10000)}.Validate(), "boundary values")

	assert.ErrorIs(t, GoalTargets{WeightKg: f(2.0)}.Validate(), ErrOutOfRange, "weight lower bound is exclusive")
	assert.ErrorIs(t, GoalTargets{WeightKg: f(1000.01)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{BMI: f(5.0)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{BMI: f(60.01)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{BMR: f(99.99)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{BMR: f(5000.5)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{TDEE: f(50)}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, GoalTargets{TDEE: f(10001)}.Validate(), ErrOutOfRange)
}
