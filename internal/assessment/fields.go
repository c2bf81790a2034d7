package assessment

// Field identifies a canonical PatientAssessment input.
type Field int

const (
	FieldName Field = iota
	FieldMobile
	FieldEmail
	FieldAge
	FieldGender
	FieldBloodPressure
	FieldSystolic
	FieldDiastolic
	FieldPulse
	FieldHeight
	FieldWeight
	FieldLDL
	FieldHDL
	FieldFastingSugar
	FieldPostMealSugar
	FieldDiet
	FieldExercise
	FieldSleep
	FieldSmoking
	FieldDiabetes
	FieldTobaccoUse
	FieldKnowsLipids
	FieldHighCholesterol
	FieldChestPain
	FieldShortnessOfBreath
	FieldDizziness
	FieldFatigue
	FieldSwelling
	FieldPalpitations
	FieldFamilyHistory
	FieldInitialSymptoms
	FieldAdditionalSymptoms
	FieldNotes
	FieldProfession

	fieldCount
)

// fieldAliases lists header spellings per field, most specific first.
// Aliases that are substrings of another field's usual header (for example
// "ldlcholesterol" containing "cholesterol") are left out on purpose.
var fieldAliases = [fieldCount][]string{
	FieldName:               {"fullname", "patientname", "name"},
	FieldMobile:             {"mobile", "mobilenumber", "phone", "phonenumber", "contactnumber", "whatsapp", "contact"},
	FieldEmail:              {"email", "emailaddress", "emailid", "mail"},
	FieldAge:                {"age", "ageyears", "ageinyears"},
	FieldGender:             {"gender", "sex"},
	FieldBloodPressure:      {"bloodpressure", "bp", "bpreading"},
	FieldSystolic:           {"systolic", "systolicbp", "sbp", "upperbp"},
	FieldDiastolic:          {"diastolic", "diastolicbp", "dbp", "lowerbp"},
	FieldPulse:              {"pulse", "pulserate", "heartrate", "bpm"},
	FieldHeight:             {"heightcm", "height"},
	FieldWeight:             {"weightkg", "weight"},
	FieldLDL:                {"ldl"},
	FieldHDL:                {"hdl"},
	FieldFastingSugar:       {"fastingsugar", "fastingbloodsugar", "fbs", "fastingglucose", "bloodsugar", "glucose"},
	FieldPostMealSugar:      {"postmealsugar", "ppbs", "postprandial", "aftermealsugar"},
	FieldDiet:               {"diet", "diettype", "eatinghabits", "food"},
	FieldExercise:           {"exercise", "physicalactivity", "activitylevel", "activity", "workout"},
	FieldSleep:              {"sleephours", "sleepduration", "sleep"},
	FieldSmoking:            {"smoking", "smoker", "smoke", "cigarette"},
	FieldDiabetes:           {"diabetes", "diabetic"},
	FieldTobaccoUse:         {"tobaccouse", "tobacco", "chewingtobacco", "gutka"},
	FieldKnowsLipids:        {"knowslipids", "knowlipids", "knowyourcholesterol", "lipidprofileknown"},
	FieldHighCholesterol:    {"highcholesterol", "cholesterol"},
	FieldChestPain:          {"chestpain", "chestdiscomfort"},
	FieldShortnessOfBreath:  {"shortnessofbreath", "breathlessness", "breathing"},
	FieldDizziness:          {"dizziness", "dizzy", "lightheaded"},
	FieldFatigue:            {"fatigue", "tiredness"},
	FieldSwelling:           {"swelling", "edema", "oedema"},
	FieldPalpitations:       {"palpitations", "palpitation"},
	FieldFamilyHistory:      {"familyhistoryofheartdisease", "familyhistory", "heartdiseaseinfamily"},
	FieldInitialSymptoms:    {"initialsymptoms", "symptoms", "presentingcomplaint", "complaint"},
	FieldAdditionalSymptoms: {"additionalsymptoms", "othersymptoms", "moresymptoms"},
	FieldNotes:              {"usernotes", "notes", "remarks", "comments"},
	FieldProfession:         {"profession", "occupation", "job"},
}

// Aliases returns the header aliases for f.
func Aliases(f Field) []string {
	if f < 0 || f >= fieldCount {
		return nil
	}
	return fieldAliases[f]
}

// symptomKeywords are searched in the combined free-text symptom columns.
var symptomKeywords = map[Field][]string{
	FieldChestPain:         {"chest pain"},
	FieldShortnessOfBreath: {"shortness of breath", "breathless"},
	FieldDizziness:         {"dizz"},
	FieldFatigue:           {"fatigue"},
	FieldSwelling:          {"swelling"},
	FieldPalpitations:      {"palpitation"},
	FieldFamilyHistory:     {"family history"},
}
