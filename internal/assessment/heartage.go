package assessment

import (
	"math"
	"strings"
)

// Reference patient and search range for HeartAge.
const (
	idealBMI      = 22.5
	idealSystolic = 115

	heartAgeSearchMin = 20
	heartAgeSearchMax = 90

	MinHeartAge = 18
	MaxHeartAge = 100
)

// HeartAge finds the age at which an ideal-risk-factor person of the same
// gender carries the subject's base risk, then shifts it by lifestyle and
// symptom modifiers. The result is in [18, 100].
func HeartAge(p *PatientAssessment) int {
	ideal := riskInputs{
		gender:   p.Gender,
		bmi:      idealBMI,
		systolic: idealSystolic,
	}
	age := closestAge(RiskPercent(p), func(a int) float64 {
		ideal.age = float64(a)
		return ideal.percent()
	})

	age += lifestyleModifier(p)

	if age < MinHeartAge {
		return MinHeartAge
	}
	if age > MaxHeartAge {
		return MaxHeartAge
	}
	return age
}

// closestAge scans the search range for the age whose risk is nearest to
// target. On equal distance the lower age wins.
func closestAge(target float64, riskAt func(age int) float64) int {
	age := heartAgeSearchMin
	best := math.Inf(1)
	for a := heartAgeSearchMin; a <= heartAgeSearchMax; a++ {
		diff := math.Abs(riskAt(a) - target)
		if diff < best {
			best = diff
			age = a
		}
	}
	return age
}

func lifestyleModifier(p *PatientAssessment) int {
	mod := 0

	if p.SleepHours > 0 {
		if p.SleepHours < 6 || p.SleepHours > 9 {
			mod++
		} else {
			mod--
		}
	}

	diet := strings.ToLower(p.Diet)
	switch {
	case strings.Contains(diet, "high-carb"), strings.Contains(diet, "irregular"):
		mod += 2
	case strings.Contains(diet, "balanced"), strings.Contains(diet, "restrict"):
		mod -= 2
	}

	exercise := strings.ToLower(p.Exercise)
	switch {
	case strings.Contains(exercise, "sedentary"):
		mod += 2
	case strings.Contains(exercise, "active"), strings.Contains(exercise, "workout"):
		mod -= 2
	}

	if p.ChestPain {
		mod += 2
	}
	if p.ShortnessOfBreath {
		mod++
	}
	if p.FamilyHistory {
		mod += 2
	}
	return mod
}
