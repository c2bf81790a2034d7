package assessment

import "math"

// Coefficients is one sex-specific set of the Framingham office-based
// (non-laboratory, BMI) 10-year cardiovascular risk model.
type Coefficients struct {
	LnAge            float64
	LnBMI            float64
	LnSystolic       float64
	Smoking          float64
	Diabetes         float64
	BaselineSurvival float64
	MeanBetaX        float64
}

// Untreated systolic pressure terms are used throughout.
var (
	MaleCoefficients = Coefficients{
		LnAge:            3.11296,
		LnBMI:            0.79277,
		LnSystolic:       1.85508,
		Smoking:          0.70953,
		Diabetes:         0.53160,
		BaselineSurvival: 0.88431,
		MeanBetaX:        23.9388,
	}
	FemaleCoefficients = Coefficients{
		LnAge:            2.72107,
		LnBMI:            0.51125,
		LnSystolic:       2.81291,
		Smoking:          0.61868,
		Diabetes:         0.77763,
		BaselineSurvival: 0.94833,
		MeanBetaX:        26.0145,
	}
)

// Composite score multipliers and thresholds.
const (
	HighLDLThreshold = 160.0
	LowHDLThreshold  = 40.0

	highLDLFactor       = 1.3
	lowHDLFactor        = 1.2
	familyHistoryFactor = 1.2
	chestPainFactor     = 1.3

	MaxRiskScore = 99.9
)

// CoefficientsFor maps gender onto the two-bucket model: "male" uses the men's
// set, everything else the women's set.
func CoefficientsFor(gender string) Coefficients {
	if gender == GenderMale {
		return MaleCoefficients
	}
	return FemaleCoefficients
}

// riskInputs is the subset of a record the base model reads.
type riskInputs struct {
	gender   string
	age      float64
	bmi      float64
	systolic float64
	smoker   bool
	diabetic bool
}

func inputsOf(p *PatientAssessment) riskInputs {
	in := riskInputs{
		gender:   p.Gender,
		age:      float64(p.Age),
		bmi:      p.BMI,
		systolic: float64(p.Systolic),
		smoker:   p.IsSmoker(),
		diabetic: p.HasDiabetes(),
	}
	if in.age <= 0 {
		in.age = DefaultAge
	}
	if in.bmi <= 0 {
		in.bmi = DefaultRiskBMI
	}
	if in.systolic <= 0 {
		in.systolic = DefaultSystolic
	}
	return in
}

func (in riskInputs) percent() float64 {
	c := CoefficientsFor(in.gender)
	betaX := c.LnAge*math.Log(in.age) +
		c.LnBMI*math.Log(in.bmi) +
		c.LnSystolic*math.Log(in.systolic)
	if in.smoker {
		betaX += c.Smoking
	}
	if in.diabetic {
		betaX += c.Diabetes
	}
	risk := 1 - math.Pow(c.BaselineSurvival, math.Exp(betaX-c.MeanBetaX))
	return risk * 100
}

// RiskPercent is the uncapped base model probability, in percent.
func RiskPercent(p *PatientAssessment) float64 {
	return inputsOf(p).percent()
}

// RiskScore applies the lipid, family-history and chest-pain multipliers to
// RiskPercent, caps the result at 99.9 and rounds it to one decimal.
func RiskScore(p *PatientAssessment) float64 {
	risk := RiskPercent(p)
	if p.LDL != nil && *p.LDL > HighLDLThreshold {
		risk *= highLDLFactor
	}
	if p.HDL != nil && *p.HDL < LowHDLThreshold {
		risk *= lowHDLFactor
	}
	if p.FamilyHistory {
		risk *= familyHistoryFactor
	}
	if p.ChestPain {
		risk *= chestPainFactor
	}
	return round1(math.Min(risk, MaxRiskScore))
}
