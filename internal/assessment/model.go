package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Defaults applied to any field the input leaves empty or unparsable.
const (
	DefaultAge        = 30
	DefaultGender     = GenderMale
	DefaultHeightCM   = 165.0
	DefaultWeightKG   = 65.0
	DefaultSystolic   = 120
	DefaultDiastolic  = 80
	DefaultPulse      = 72
	DefaultSleepHours = 7.0
	DefaultRiskBMI    = 24.0
)

// Accepted input ranges. Values outside them are treated as unparsable and
// replaced by the defaults above.
const (
	MinAge      = 1
	MaxAge      = 130
	MaxVital    = 400 // pulse in bpm, blood pressure in mmHg
	MinHeightCM = 30.0
	MaxHeightCM = 300.0
	MaxWeightKG = 500.0
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Status is a yes/no style answer. It decodes from either a JSON string or a
// JSON boolean so API payloads can send `"smoking": true`.
type Status string

const (
	StatusNo           Status = "no"
	StatusYes          Status = "yes"
	StatusOccasionally Status = "occasionally"
	StatusRegularly    Status = "regularly"
)

func (s *Status) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case bool:
		if t {
			*s = StatusYes
		} else {
			*s = StatusNo
		}
	case string:
		*s = Status(strings.ToLower(strings.TrimSpace(t)))
	default:
		return fmt.Errorf("status: unsupported value %s", string(b))
	}
	return nil
}

// PatientAssessment is the canonical record built from one spreadsheet row or
// one API payload.
type PatientAssessment struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`

	Age    int    `json:"age"`
	Gender string `json:"gender"`

	HeightCM float64 `json:"height"`
	WeightKG float64 `json:"weight"`
	BMI      float64 `json:"bmi"`

	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
	Pulse     int `json:"pulse"`

	LDL           *float64 `json:"ldl"`
	HDL           *float64 `json:"hdl"`
	FastingSugar  *float64 `json:"fasting_sugar"`
	PostMealSugar *float64 `json:"post_meal_sugar"`

	Diet            string  `json:"diet"`
	Exercise        string  `json:"exercise"`
	SleepHours      float64 `json:"sleep_hours"`
	Smoking         Status  `json:"smoking"`
	Diabetes        Status  `json:"diabetes"`
	TobaccoUse      bool    `json:"tobacco_use"`
	KnowsLipids     bool    `json:"knows_lipids"`
	HighCholesterol bool    `json:"high_cholesterol"`

	ChestPain         bool `json:"chest_pain"`
	ShortnessOfBreath bool `json:"shortness_of_breath"`
	Dizziness         bool `json:"dizziness"`
	Fatigue           bool `json:"fatigue"`
	Swelling          bool `json:"swelling"`
	Palpitations      bool `json:"palpitations"`
	FamilyHistory     bool `json:"family_history"`

	UserNotes  string `json:"user_notes"`
	Profession string `json:"profession"`

	RiskScore *float64 `json:"risk_score,omitempty"`
	HeartAge  *int     `json:"heart_age,omitempty"`
}

// IsSmoker reports whether the smoking answer counts as an active smoker.
func (p *PatientAssessment) IsSmoker() bool {
	switch p.Smoking {
	case StatusYes, StatusRegularly, StatusOccasionally, "true":
		return true
	}
	return false
}

// HasDiabetes reports whether the diabetes answer is affirmative.
func (p *PatientAssessment) HasDiabetes() bool {
	return p.Diabetes == StatusYes || p.Diabetes == "true"
}
