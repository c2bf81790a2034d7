package assessment

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)
	firstIntegerRe  = regexp.MustCompile(`\d+`)
)

var yesValues = map[string]struct{}{
	"yes":     {},
	"y":       {},
	"1":       {},
	"true":    {},
	"present": {},
}

// IsYes reports whether v is an affirmative answer.
func IsYes(v string) bool {
	_, ok := yesValues[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Discovery records which field groups were found in at least one row of a
// batch.
type Discovery struct {
	Name     bool `json:"name"`
	Mobile   bool `json:"mobile"`
	Email    bool `json:"email"`
	Age      bool `json:"age"`
	BP       bool `json:"bp"`
	Pulse    bool `json:"pulse"`
	Sugar    bool `json:"sugar"`
	BMIInput bool `json:"bmi_input"`
}

// Missing lists the field groups that were never found.
func (d Discovery) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		found bool
	}{
		{"name", d.Name},
		{"mobile", d.Mobile},
		{"email", d.Email},
		{"age", d.Age},
		{"bp", d.BP},
		{"pulse", d.Pulse},
		{"sugar", d.Sugar},
		{"bmi_input", d.BMIInput},
	} {
		if !f.found {
			out = append(out, f.name)
		}
	}
	return out
}

// Normalizer turns raw rows into PatientAssessments. A Normalizer accumulates
// Discovery across calls, so use one per batch.
type Normalizer struct {
	Discovery Discovery
}

// Normalize builds a complete record from row. index is the zero-based data
// row position and is used for the default name. It returns false when every
// cell of row is blank.
func (n *Normalizer) Normalize(row Row, index int) (*PatientAssessment, bool) {
	if row.Blank() {
		return nil, false
	}

	text := func(f Field) string {
		v, _ := Resolve(row, fieldAliases[f])
		return strings.TrimSpace(v)
	}
	yes := func(f Field) bool {
		return IsYes(text(f))
	}

	rec := &PatientAssessment{
		Name:       text(FieldName),
		Mobile:     text(FieldMobile),
		Email:      text(FieldEmail),
		Age:        DefaultAge,
		Gender:     normalizeGender(text(FieldGender)),
		HeightCM:   DefaultHeightCM,
		WeightKG:   DefaultWeightKG,
		Systolic:   DefaultSystolic,
		Diastolic:  DefaultDiastolic,
		Pulse:      DefaultPulse,
		Diet:       text(FieldDiet),
		Exercise:   text(FieldExercise),
		SleepHours: parseSleepHours(text(FieldSleep)),
		Smoking:    normalizeSmoking(text(FieldSmoking)),
		Diabetes:   normalizeDiabetes(text(FieldDiabetes)),
		UserNotes:  text(FieldNotes),
		Profession: text(FieldProfession),

		TobaccoUse:      yes(FieldTobaccoUse),
		KnowsLipids:     yes(FieldKnowsLipids),
		HighCholesterol: yes(FieldHighCholesterol),
	}

	if rec.Name != "" {
		n.Discovery.Name = true
	} else {
		rec.Name = fmt.Sprintf("Patient %d", index+1)
	}
	if rec.Mobile != "" {
		n.Discovery.Mobile = true
	}
	if rec.Email != "" {
		n.Discovery.Email = true
	}

	if v, ok := parseLeadingFloat(text(FieldAge)); ok && inRange(v, MinAge, MaxAge) {
		rec.Age = int(v)
		n.Discovery.Age = true
	}

	if sys, dia, ok := n.bloodPressure(text); ok {
		rec.Systolic, rec.Diastolic = sys, dia
	}

	if v, ok := parseVital(text(FieldPulse)); ok {
		rec.Pulse = v
		n.Discovery.Pulse = true
	}

	h, hok := parseLeadingFloat(text(FieldHeight))
	hok = hok && validHeight(h)
	if hok {
		rec.HeightCM = h
	}
	w, wok := parseLeadingFloat(text(FieldWeight))
	wok = wok && validWeight(w)
	if wok {
		rec.WeightKG = w
	}
	if hok || wok {
		n.Discovery.BMIInput = true
	}
	rec.BMI = BMI(rec.HeightCM, rec.WeightKG)

	rec.LDL = optionalFloat(text(FieldLDL))
	rec.HDL = optionalFloat(text(FieldHDL))
	rec.FastingSugar = optionalFloat(text(FieldFastingSugar))
	rec.PostMealSugar = optionalFloat(text(FieldPostMealSugar))
	if rec.FastingSugar != nil || rec.PostMealSugar != nil {
		n.Discovery.Sugar = true
	}

	symptoms := strings.ToLower(text(FieldInitialSymptoms) + " " + text(FieldAdditionalSymptoms))
	symptom := func(f Field) bool {
		if yes(f) {
			return true
		}
		for _, kw := range symptomKeywords[f] {
			if strings.Contains(symptoms, kw) {
				return true
			}
		}
		return false
	}
	rec.ChestPain = symptom(FieldChestPain)
	rec.ShortnessOfBreath = symptom(FieldShortnessOfBreath)
	rec.Dizziness = symptom(FieldDizziness)
	rec.Fatigue = symptom(FieldFatigue)
	rec.Swelling = symptom(FieldSwelling)
	rec.Palpitations = symptom(FieldPalpitations)
	rec.FamilyHistory = symptom(FieldFamilyHistory)

	return rec, true
}

// bloodPressure prefers a combined "120/80" column and falls back to separate
// systolic and diastolic columns.
func (n *Normalizer) bloodPressure(text func(Field) string) (sys, dia int, found bool) {
	sys, dia = DefaultSystolic, DefaultDiastolic

	if combined := text(FieldBloodPressure); strings.Contains(combined, "/") {
		n.Discovery.BP = true
		parts := strings.SplitN(combined, "/", 2)
		s, sok := parseVital(parts[0])
		d, dok := parseVital(parts[1])
		if !sok || !dok {
			return DefaultSystolic, DefaultDiastolic, true
		}
		return s, d, true
	}

	if v, ok := parseVital(text(FieldSystolic)); ok {
		sys = v
		found = true
	}
	if v, ok := parseVital(text(FieldDiastolic)); ok {
		dia = v
		found = true
	}
	if found {
		n.Discovery.BP = true
	}
	return sys, dia, found
}

// BMI returns weight/height² rounded to one decimal. Height is in centimetres.
// It returns 0 when the inputs are not positive or the result is not finite.
func BMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 || weightKG <= 0 {
		return 0
	}
	bmi := weightKG * 10000 / (heightCM * heightCM)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return 0
	}
	return round1(bmi)
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func validHeight(h float64) bool { return inRange(h, MinHeightCM, MaxHeightCM) }

func validWeight(w float64) bool { return w > 0 && w <= MaxWeightKG }

func validVital(v int) bool { return v >= 1 && v <= MaxVital }

// parseVital reads a pulse or blood-pressure reading and rejects values that
// round outside [1, MaxVital].
func parseVital(s string) (int, bool) {
	v, ok := parseLeadingFloat(s)
	if !ok {
		return 0, false
	}
	v = math.Round(v)
	if !inRange(v, 1, MaxVital) {
		return 0, false
	}
	return int(v), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// parseLeadingFloat reads the numeric prefix of s, so "145 mmHg" yields 145.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingNumberRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optionalFloat(s string) *float64 {
	v, ok := parseLeadingFloat(s)
	if !ok {
		return nil
	}
	return &v
}

// parseSleepHours takes the first integer in free text such as "6-7 hours".
func parseSleepHours(s string) float64 {
	m := firstIntegerRe.FindString(s)
	if m == "" {
		return DefaultSleepHours
	}
	v, err := strconv.Atoi(m)
	if err != nil || v <= 0 {
		return DefaultSleepHours
	}
	return float64(v)
}

func normalizeGender(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return DefaultGender
	case strings.HasPrefix(s, "f"), s == "w", strings.HasPrefix(s, "woman"):
		return GenderFemale
	case strings.HasPrefix(s, "m"):
		return GenderMale
	default:
		return GenderOther
	}
}

func normalizeSmoking(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "occasion"), strings.Contains(s, "sometimes"):
		return StatusOccasionally
	case strings.Contains(s, "regular"), strings.Contains(s, "daily"), strings.Contains(s, "heavy"):
		return StatusRegularly
	case IsYes(s):
		return StatusYes
	default:
		return StatusNo
	}
}

func normalizeDiabetes(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsYes(s) || strings.Contains(s, "yes") || strings.Contains(s, "type") {
		return StatusYes
	}
	return StatusNo
}
