package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SmokerWithCombinedBP(t *testing.T) {
	row := Row{
		{"Full Name", "Asha"},
		{"Age", "45"},
		{"Blood Pressure", "145/95"},
		{"Do you smoke?", "regularly"},
		{"Height (cm)", "160"},
		{"Weight (kg)", "80"},
	}

	var n Normalizer
	rec, ok := n.Normalize(row, 0)
	require.True(t, ok)

	assert.Equal(t, "Asha", rec.Name)
	assert.Equal(t, 45, rec.Age)
	assert.Equal(t, 145, rec.Systolic)
	assert.Equal(t, 95, rec.Diastolic)
	assert.Equal(t, StatusRegularly, rec.Smoking)
	assert.Equal(t, 31.3, rec.BMI)
	assert.Equal(t, GenderMale, rec.Gender)

	baseline := *rec
	baseline.Smoking = StatusNo
	baseline.Systolic = 120
	baseline.Diastolic = 80
	assert.Greater(t, RiskScore(rec), RiskScore(&baseline))
}

func TestNormalize_DefaultsWhenNothingRecognized(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{{"Xyz", "something"}}, 2)
	require.True(t, ok)

	assert.Equal(t, "Patient 3", rec.Name)
	assert.Equal(t, DefaultAge, rec.Age)
	assert.Equal(t, DefaultGender, rec.Gender)
	assert.Equal(t, DefaultHeightCM, rec.HeightCM)
	assert.Equal(t, DefaultWeightKG, rec.WeightKG)
	assert.Equal(t, BMI(DefaultHeightCM, DefaultWeightKG), rec.BMI)
	assert.Equal(t, DefaultSystolic, rec.Systolic)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
	assert.Equal(t, DefaultPulse, rec.Pulse)
	assert.Equal(t, DefaultSleepHours, rec.SleepHours)
	assert.Equal(t, StatusNo, rec.Smoking)
	assert.Equal(t, StatusNo, rec.Diabetes)
	assert.Nil(t, rec.LDL)
	assert.Nil(t, rec.HDL)
	assert.Nil(t, rec.RiskScore)
	assert.Nil(t, rec.HeartAge)
	assert.Equal(t, Discovery{}, n.Discovery)
}

func TestNormalize_BlankRowRejected(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{{"Name", ""}, {"Age", "   "}, {"Notes", "\t"}}, 0)
	assert.False(t, ok)
	assert.Nil(t, rec)
}

func TestNormalize_UnparsableCombinedBPFallsBack(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{{"Name", "A"}, {"BP", "high/??"}, {"Systolic", "150"}}, 0)
	require.True(t, ok)
	assert.Equal(t, DefaultSystolic, rec.Systolic)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
	assert.True(t, n.Discovery.BP)
}

func TestNormalize_SeparateBPColumns(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{{"Name", "A"}, {"Systolic BP", "130 mmHg"}, {"Diastolic BP", ""}}, 0)
	require.True(t, ok)
	assert.Equal(t, 130, rec.Systolic)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
}

func TestNormalize_OutOfRangeNumbersFallBack(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{
		{"Name", "A"},
		{"Age", "99999999999999999999"},
		{"Pulse", "99999999999999999999"},
		{"Systolic", "5000"},
		{"Diastolic", "0.2"},
		{"Height", "0.0000001"},
		{"Weight", "900"},
	}, 0)
	require.True(t, ok)

	assert.Equal(t, DefaultAge, rec.Age)
	assert.Equal(t, DefaultPulse, rec.Pulse)
	assert.Equal(t, DefaultSystolic, rec.Systolic)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
	assert.Equal(t, DefaultHeightCM, rec.HeightCM)
	assert.Equal(t, DefaultWeightKG, rec.WeightKG)
	assert.Equal(t, BMI(DefaultHeightCM, DefaultWeightKG), rec.BMI)
	assert.False(t, n.Discovery.Age)
	assert.False(t, n.Discovery.Pulse)
	assert.False(t, n.Discovery.BP)
	assert.False(t, n.Discovery.BMIInput)
}

func TestNormalize_RangeEdges(t *testing.T) {
	cases := []struct {
		age  string
		want int
	}{
		{"1", 1},
		{"130", 130},
		{"131", DefaultAge},
		{"0.5", DefaultAge},
	}
	for _, tc := range cases {
		var n Normalizer
		rec, ok := n.Normalize(Row{{"Name", "A"}, {"Age", tc.age}}, 0)
		require.True(t, ok)
		assert.Equal(t, tc.want, rec.Age, tc.age)
	}

	var n Normalizer
	rec, ok := n.Normalize(Row{{"Name", "A"}, {"BP", "400/99999999999999999999"}}, 0)
	require.True(t, ok)
	assert.Equal(t, DefaultSystolic, rec.Systolic)
	assert.Equal(t, DefaultDiastolic, rec.Diastolic)
	assert.True(t, n.Discovery.BP)
}

func TestNormalize_SymptomsFromFreeText(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{
		{"Name", "R"},
		{"Symptoms", "Mild Chest Pain, shortness of breath at night"},
		{"Palpitations", "present"},
	}, 0)
	require.True(t, ok)

	assert.True(t, rec.ChestPain)
	assert.True(t, rec.ShortnessOfBreath)
	assert.True(t, rec.Palpitations)
	assert.False(t, rec.Dizziness)
	assert.False(t, rec.FamilyHistory)
}

func TestNormalize_LabsAndLifestyle(t *testing.T) {
	var n Normalizer
	rec, ok := n.Normalize(Row{
		{"Name", "L"},
		{"Gender", "Female"},
		{"LDL", "172"},
		{"HDL", "n/a"},
		{"Fasting Sugar", "98 mg/dl"},
		{"Sleep", "6-7 hours"},
		{"Diabetes", "Type 2"},
		{"Tobacco Use", "Y"},
		{"Family History", "yes"},
	}, 0)
	require.True(t, ok)

	assert.Equal(t, GenderFemale, rec.Gender)
	require.NotNil(t, rec.LDL)
	assert.Equal(t, 172.0, *rec.LDL)
	assert.Nil(t, rec.HDL)
	require.NotNil(t, rec.FastingSugar)
	assert.Equal(t, 98.0, *rec.FastingSugar)
	assert.Equal(t, 6.0, rec.SleepHours)
	assert.Equal(t, StatusYes, rec.Diabetes)
	assert.True(t, rec.TobaccoUse)
	assert.True(t, rec.FamilyHistory)
	assert.True(t, n.Discovery.Sugar)
}

func TestNormalize_DiscoveryAccumulatesAcrossRows(t *testing.T) {
	var n Normalizer
	_, _ = n.Normalize(Row{{"Name", "A"}, {"Mobile", ""}}, 0)
	_, _ = n.Normalize(Row{{"Name", ""}, {"Mobile", "98765"}, {"Pulse", "80"}, {"Weight", "70"}}, 1)

	assert.True(t, n.Discovery.Name)
	assert.True(t, n.Discovery.Mobile)
	assert.True(t, n.Discovery.Pulse)
	assert.True(t, n.Discovery.BMIInput)
	assert.False(t, n.Discovery.Email)
	assert.ElementsMatch(t, []string{"email", "age", "bp", "sugar"}, n.Discovery.Missing())
}

func TestIsYes(t *testing.T) {
	for _, v := range []string{"yes", " Y ", "1", "TRUE", "Present"} {
		assert.True(t, IsYes(v), v)
	}
	for _, v := range []string{"", "no", "0", "yess", "absent"} {
		assert.False(t, IsYes(v), v)
	}
}

func TestBMI_IndependentOfOtherFields(t *testing.T) {
	cases := []struct {
		height, weight, want float64
	}{
		{160, 80, 31.3},
		{165, 60, 22.0},
		{180, 75, 23.1},
		{150.5, 48.2, 21.3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BMI(tc.height, tc.weight), "%v/%v", tc.height, tc.weight)
	}
	assert.Equal(t, 0.0, BMI(0, 70))
	assert.Equal(t, 0.0, BMI(1e-200, 70))
	assert.Equal(t, 0.0, BMI(165, 1e308))
}
