package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartAge_IdealPatientMatchesOwnAge(t *testing.T) {
	rec := PatientAssessment{Age: 55, Gender: GenderFemale, BMI: idealBMI, Systolic: idealSystolic}
	// no sleep recorded, so no lifestyle modifier applies
	assert.Equal(t, 55, HeartAge(&rec))
}

func TestHeartAge_UsesBaseRiskNotComposite(t *testing.T) {
	plain := baseRecord()
	lipids := baseRecord()
	lipids.LDL = floatPtr(220)
	lipids.HDL = floatPtr(30)
	assert.Equal(t, HeartAge(&plain), HeartAge(&lipids))
}

func TestClosestAge_TieGoesToLowerAge(t *testing.T) {
	linear := func(a int) float64 { return float64(a) }

	// 40 and 41 are both 0.5 away.
	assert.Equal(t, 40, closestAge(40.5, linear))
	assert.Equal(t, 41, closestAge(40.75, linear))

	// Constant risk makes every age tie.
	flat := func(int) float64 { return 3 }
	assert.Equal(t, heartAgeSearchMin, closestAge(3, flat))

	// Targets beyond the range pin to its ends.
	assert.Equal(t, heartAgeSearchMin, closestAge(-10, linear))
	assert.Equal(t, heartAgeSearchMax, closestAge(500, linear))
}

func TestHeartAge_Modifiers(t *testing.T) {
	base := baseRecord()
	ref := HeartAge(&base)

	cases := []struct {
		name  string
		apply func(*PatientAssessment)
		delta int
	}{
		{"short sleep", func(p *PatientAssessment) { p.SleepHours = 5 }, 2},
		{"long sleep", func(p *PatientAssessment) { p.SleepHours = 10 }, 2},
		{"high-carb diet", func(p *PatientAssessment) { p.Diet = "High-carb, fried food" }, 2},
		{"balanced diet", func(p *PatientAssessment) { p.Diet = "Balanced" }, -2},
		{"sedentary", func(p *PatientAssessment) { p.Exercise = "Sedentary desk job" }, 2},
		{"workout", func(p *PatientAssessment) { p.Exercise = "gym workout 3x" }, -2},
		{"chest pain", func(p *PatientAssessment) { p.ChestPain = true }, 2},
		{"breathless", func(p *PatientAssessment) { p.ShortnessOfBreath = true }, 1},
		{"family history", func(p *PatientAssessment) { p.FamilyHistory = true }, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := base
			tc.apply(&rec)
			assert.Equal(t, ref+tc.delta, HeartAge(&rec))
		})
	}
}

func TestHeartAge_Bounds(t *testing.T) {
	young := PatientAssessment{
		Age:        18,
		Gender:     GenderFemale,
		BMI:        18,
		Systolic:   90,
		SleepHours: 7,
		Diet:       "balanced",
		Exercise:   "very active",
	}
	assert.Equal(t, MinHeartAge, HeartAge(&young))

	old := PatientAssessment{
		Age:               90,
		Gender:            GenderMale,
		BMI:               45,
		Systolic:          220,
		Smoking:           StatusYes,
		Diabetes:          StatusYes,
		SleepHours:        4,
		Diet:              "irregular",
		Exercise:          "sedentary",
		ChestPain:         true,
		ShortnessOfBreath: true,
		FamilyHistory:     true,
	}
	age := HeartAge(&old)
	assert.GreaterOrEqual(t, age, MinHeartAge)
	assert.LessOrEqual(t, age, MaxHeartAge)
	assert.Equal(t, heartAgeSearchMax+10, age)
}

func TestCalculate_ScenarioHealthyThirtyYearOld(t *testing.T) {
	payload := `[{"name":"X","mobile":"1","age":30,"height":165,"weight":60,"systolic":120,"gender":"male","smoking":"no","diabetes":"no"}]`
	var records []PatientAssessment
	require.NoError(t, json.Unmarshal([]byte(payload), &records))

	out := CalculateAll(records)
	require.Len(t, out, 1)
	rec := out[0]

	assert.Equal(t, 22.0, rec.BMI)
	require.NotNil(t, rec.RiskScore)
	require.NotNil(t, rec.HeartAge)
	assert.Greater(t, *rec.RiskScore, 0.0)
	assert.Less(t, *rec.RiskScore, 5.0)
	assert.InDelta(t, 30, *rec.HeartAge, 3)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
	assert.Equal(t, DefaultSleepHours, rec.SleepHours)
}

func TestCalculate_Idempotent(t *testing.T) {
	records := []PatientAssessment{baseRecord(), baseRecord(), {Name: "empty"}}
	records[1].Smoking = StatusRegularly
	records[1].LDL = floatPtr(180)

	first := CalculateAll(records)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	var again []PatientAssessment
	require.NoError(t, json.Unmarshal(firstJSON, &again))
	second := CalculateAll(again)

	for i := range first {
		assert.Equal(t, *first[i].RiskScore, *second[i].RiskScore)
		assert.Equal(t, *first[i].HeartAge, *second[i].HeartAge)
		assert.Equal(t, first[i].BMI, second[i].BMI)
	}
}

func TestStatus_UnmarshalBool(t *testing.T) {
	var rec PatientAssessment
	require.NoError(t, json.Unmarshal([]byte(`{"smoking":true,"diabetes":false}`), &rec))
	assert.Equal(t, StatusYes, rec.Smoking)
	assert.Equal(t, StatusNo, rec.Diabetes)
	assert.True(t, rec.IsSmoker())

	require.NoError(t, json.Unmarshal([]byte(`{"smoking":" Regularly "}`), &rec))
	assert.Equal(t, StatusRegularly, rec.Smoking)

	assert.Error(t, json.Unmarshal([]byte(`{"smoking":3}`), &rec))
}
