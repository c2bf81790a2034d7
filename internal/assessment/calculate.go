package assessment

import "strings"

// ApplyDefaults replaces missing or out-of-range inputs of an already
// normalized record with the same defaults the Normalizer uses and recomputes
// BMI. Valid inputs are left alone so repeated calls are stable.
func ApplyDefaults(p *PatientAssessment) {
	if p.Age < MinAge || p.Age > MaxAge {
		p.Age = DefaultAge
	}
	switch g := strings.ToLower(strings.TrimSpace(p.Gender)); g {
	case GenderMale, GenderFemale, GenderOther:
		p.Gender = g
	default:
		p.Gender = normalizeGender(g)
	}
	if !validHeight(p.HeightCM) {
		p.HeightCM = DefaultHeightCM
	}
	if !validWeight(p.WeightKG) {
		p.WeightKG = DefaultWeightKG
	}
	if !validVital(p.Systolic) {
		p.Systolic = DefaultSystolic
	}
	if !validVital(p.Diastolic) {
		p.Diastolic = DefaultDiastolic
	}
	if !validVital(p.Pulse) {
		p.Pulse = DefaultPulse
	}
	if p.SleepHours <= 0 {
		p.SleepHours = DefaultSleepHours
	}
	if p.Smoking == "" {
		p.Smoking = StatusNo
	}
	if p.Diabetes == "" {
		p.Diabetes = StatusNo
	}
	p.BMI = BMI(p.HeightCM, p.WeightKG)
}

// Calculate applies defaults and attaches RiskScore and HeartAge.
func Calculate(p *PatientAssessment) {
	ApplyDefaults(p)
	risk := RiskScore(p)
	age := HeartAge(p)
	p.RiskScore = &risk
	p.HeartAge = &age
}

// CalculateAll scores every record in place and returns the slice.
func CalculateAll(records []PatientAssessment) []PatientAssessment {
	for i := range records {
		Calculate(&records[i])
	}
	return records
}
