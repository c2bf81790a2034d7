package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func baseRecord() PatientAssessment {
	return PatientAssessment{
		Name:       "Base",
		Age:        50,
		Gender:     GenderMale,
		HeightCM:   170,
		WeightKG:   72,
		BMI:        BMI(170, 72),
		Systolic:   125,
		Diastolic:  82,
		Pulse:      72,
		SleepHours: 7,
		Smoking:    StatusNo,
		Diabetes:   StatusNo,
	}
}

func TestRiskPercent_YoungHealthyMaleIsLow(t *testing.T) {
	rec := PatientAssessment{Age: 30, Gender: GenderMale, BMI: 22.0, Systolic: 120}
	risk := RiskPercent(&rec)
	assert.Greater(t, risk, 0.5)
	assert.Less(t, risk, 3.0)
}

func TestRiskPercent_DefaultsGuardLogDomain(t *testing.T) {
	zero := PatientAssessment{Gender: GenderMale}
	defaulted := PatientAssessment{Gender: GenderMale, Age: DefaultAge, BMI: DefaultRiskBMI, Systolic: DefaultSystolic}
	assert.Equal(t, RiskPercent(&defaulted), RiskPercent(&zero))
}

func TestCoefficientsFor_TwoBuckets(t *testing.T) {
	assert.Equal(t, MaleCoefficients, CoefficientsFor(GenderMale))
	assert.Equal(t, FemaleCoefficients, CoefficientsFor(GenderFemale))
	assert.Equal(t, FemaleCoefficients, CoefficientsFor(GenderOther))
}

func TestRiskScore_Monotonic(t *testing.T) {
	base := baseRecord()

	t.Run("systolic", func(t *testing.T) {
		prev := -1.0
		for sys := 90; sys <= 220; sys += 5 {
			rec := base
			rec.Systolic = sys
			score := RiskScore(&rec)
			assert.GreaterOrEqual(t, score, prev, "systolic %d", sys)
			prev = score
		}
	})

	t.Run("age", func(t *testing.T) {
		prev := -1.0
		for age := 20; age <= 90; age++ {
			rec := base
			rec.Age = age
			score := RiskScore(&rec)
			assert.GreaterOrEqual(t, score, prev, "age %d", age)
			prev = score
		}
	})

	t.Run("bmi", func(t *testing.T) {
		prev := -1.0
		for bmi := 16.0; bmi <= 45; bmi += 0.5 {
			rec := base
			rec.BMI = bmi
			score := RiskScore(&rec)
			assert.GreaterOrEqual(t, score, prev, "bmi %v", bmi)
			prev = score
		}
	})

	toggles := map[string]func(*PatientAssessment){
		"smoking":        func(p *PatientAssessment) { p.Smoking = StatusYes },
		"occasional":     func(p *PatientAssessment) { p.Smoking = StatusOccasionally },
		"diabetes":       func(p *PatientAssessment) { p.Diabetes = StatusYes },
		"family history": func(p *PatientAssessment) { p.FamilyHistory = true },
		"chest pain":     func(p *PatientAssessment) { p.ChestPain = true },
		"high ldl":       func(p *PatientAssessment) { p.LDL = floatPtr(190) },
		"low hdl":        func(p *PatientAssessment) { p.HDL = floatPtr(32) },
	}
	for name, toggle := range toggles {
		t.Run(name, func(t *testing.T) {
			rec := base
			toggle(&rec)
			assert.Greater(t, RiskScore(&rec), RiskScore(&base))
		})
	}
}

func TestRiskScore_LDLMultiplier(t *testing.T) {
	plain := baseRecord()
	withLDL := baseRecord()
	withLDL.LDL = floatPtr(200)

	assert.InDelta(t, round1(RiskPercent(&plain)*1.3), RiskScore(&withLDL), 1e-9)
	assert.InDelta(t, round1(RiskPercent(&plain)), RiskScore(&plain), 1e-9)
}

func TestRiskScore_LipidThresholdsAreStrict(t *testing.T) {
	base := baseRecord()
	edge := baseRecord()
	edge.LDL = floatPtr(HighLDLThreshold)
	edge.HDL = floatPtr(LowHDLThreshold)
	assert.Equal(t, RiskScore(&base), RiskScore(&edge))
}

func TestRiskScore_Bounds(t *testing.T) {
	worst := PatientAssessment{
		Age:           95,
		Gender:        GenderMale,
		BMI:           60,
		Systolic:      260,
		Smoking:       StatusRegularly,
		Diabetes:      StatusYes,
		LDL:           floatPtr(250),
		HDL:           floatPtr(20),
		FamilyHistory: true,
		ChestPain:     true,
	}
	assert.Equal(t, MaxRiskScore, RiskScore(&worst))

	best := PatientAssessment{Age: 18, Gender: GenderFemale, BMI: 17, Systolic: 90}
	score := RiskScore(&best)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, MaxRiskScore)
}

func TestIsSmokerAndHasDiabetes(t *testing.T) {
	for _, s := range []Status{StatusYes, StatusRegularly, StatusOccasionally, "true"} {
		p := PatientAssessment{Smoking: s}
		assert.True(t, p.IsSmoker(), string(s))
	}
	for _, s := range []Status{"", StatusNo, "never"} {
		p := PatientAssessment{Smoking: s}
		assert.False(t, p.IsSmoker(), string(s))
	}
	assert.True(t, (&PatientAssessment{Diabetes: StatusYes}).HasDiabetes())
	assert.False(t, (&PatientAssessment{Diabetes: StatusNo}).HasDiabetes())
}
