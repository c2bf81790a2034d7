package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/Skufu/heartcheck/internal/assessment"
)

// AssessmentParquet is the flat Parquet row for one scored record.
type AssessmentParquet struct {
	Name          string   `parquet:"name"`
	Mobile        string   `parquet:"mobile"`
	Email         string   `parquet:"email"`
	Age           int32    `parquet:"age"`
	Gender        string   `parquet:"gender"`
	HeightCM      float64  `parquet:"height_cm"`
	WeightKG      float64  `parquet:"weight_kg"`
	BMI           float64  `parquet:"bmi"`
	Systolic      int32    `parquet:"systolic"`
	Diastolic     int32    `parquet:"diastolic"`
	Pulse         int32    `parquet:"pulse"`
	LDL           *float64 `parquet:"ldl,optional"`
	HDL           *float64 `parquet:"hdl,optional"`
	FastingSugar  *float64 `parquet:"fasting_sugar,optional"`
	PostMealSugar *float64 `parquet:"post_meal_sugar,optional"`
	Smoking       string   `parquet:"smoking"`
	Diabetes      string   `parquet:"diabetes"`
	SleepHours    float64  `parquet:"sleep_hours"`
	Symptoms      []string `parquet:"symptoms,list"`
	RiskScore     *float64 `parquet:"risk_score,optional"`
	HeartAge      *int32   `parquet:"heart_age,optional"`
}

func toParquet(p *assessment.PatientAssessment) AssessmentParquet {
	row := AssessmentParquet{
		Name:          p.Name,
		Mobile:        p.Mobile,
		Email:         p.Email,
		Age:           int32(p.Age),
		Gender:        p.Gender,
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		BMI:           p.BMI,
		Systolic:      int32(p.Systolic),
		Diastolic:     int32(p.Diastolic),
		Pulse:         int32(p.Pulse),
		LDL:           p.LDL,
		HDL:           p.HDL,
		FastingSugar:  p.FastingSugar,
		PostMealSugar: p.PostMealSugar,
		Smoking:       string(p.Smoking),
		Diabetes:      string(p.Diabetes),
		SleepHours:    p.SleepHours,
		Symptoms:      Symptoms(p),
		RiskScore:     p.RiskScore,
	}
	if p.HeartAge != nil {
		ha := int32(*p.HeartAge)
		row.HeartAge = &ha
	}
	return row
}

// Symptoms lists the symptom flags set on p.
func Symptoms(p *assessment.PatientAssessment) []string {
	out := []string{}
	for _, s := range []struct {
		name string
		set  bool
	}{
		{"chest_pain", p.ChestPain},
		{"shortness_of_breath", p.ShortnessOfBreath},
		{"dizziness", p.Dizziness},
		{"fatigue", p.Fatigue},
		{"swelling", p.Swelling},
		{"palpitations", p.Palpitations},
		{"family_history", p.FamilyHistory},
	} {
		if s.set {
			out = append(out, s.name)
		}
	}
	return out
}

// WriteParquet writes records as a Snappy-compressed Parquet file.
func WriteParquet(w io.Writer, records []assessment.PatientAssessment) error {
	pw := parquet.NewGenericWriter[AssessmentParquet](w,
		parquet.Compression(&parquet.Snappy),
	)
	rows := make([]AssessmentParquet, len(records))
	for i := range records {
		rows[i] = toParquet(&records[i])
	}
	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []assessment.PatientAssessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"name", "mobile", "email", "age", "gender",
	"height_cm", "weight_kg", "bmi", "systolic", "diastolic", "pulse",
	"ldl", "hdl", "fasting_sugar", "post_meal_sugar",
	"smoking", "diabetes", "sleep_hours", "symptoms",
	"risk_score", "heart_age",
}

// WriteCSV writes records as CSV with a header row. Missing lab values and
// unscored fields are left empty; symptoms are joined with ";".
func WriteCSV(w io.Writer, records []assessment.PatientAssessment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		if err := cw.Write(csvRow(&records[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRow(p *assessment.PatientAssessment) []string {
	heartAge := ""
	if p.HeartAge != nil {
		heartAge = strconv.Itoa(*p.HeartAge)
	}
	return []string{
		p.Name, p.Mobile, p.Email, strconv.Itoa(p.Age), p.Gender,
		formatFloat(p.HeightCM), formatFloat(p.WeightKG), formatFloat(p.BMI),
		strconv.Itoa(p.Systolic), strconv.Itoa(p.Diastolic), strconv.Itoa(p.Pulse),
		optFloat(p.LDL), optFloat(p.HDL), optFloat(p.FastingSugar), optFloat(p.PostMealSugar),
		string(p.Smoking), string(p.Diabetes), formatFloat(p.SleepHours),
		strings.Join(Symptoms(p), ";"),
		optFloat(p.RiskScore), heartAge,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
