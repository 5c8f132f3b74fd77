// Package predict maps a fixed set of behavioral/demographic inputs to an
// expected percentage and letter grade.
//
// The scoring function is a fixed, versioned heuristic (FormulaVersion),
// not a trained model:
//
//	score = 45
//	      + min(studyTime, 25) * 1.8
//	      - min(absences, 30) * 1.4
//	      + education boost   (Middle School 0 … PhD 9)
//	      + support boost     (Low -4, Moderate 2, High 5, Very High 7)
//	      + 3 if playing sports
//	      - |age - 16.5| * 0.8
//
// clamped to [0, 100] and bucketed into a letter grade at the fixed
// cutoffs >=90 A, >=80 B, >=70 C, >=60 D, else F. Gender and ethnicity
// are accepted for input parity but never weighted.
package predict

import "math"

// FormulaVersion identifies the scoring formula documented above.
const FormulaVersion = "v1"

// Recognized categorical levels.
var (
	EducationLevels = []string{"Middle School", "High School", "Diploma", "Bachelor's", "Master's", "PhD"}
	SupportLevels   = []string{"Low", "Moderate", "High", "Very High"}

	educationBoost = map[string]float64{
		"Middle School": 0,
		"High School":   3,
		"Diploma":       5,
		"Bachelor's":    7,
		"Master's":      8,
		"PhD":           9,
	}
	supportBoost = map[string]float64{
		"Low":       -4,
		"Moderate":  2,
		"High":      5,
		"Very High": 7,
	}
)

// Input is the transient set of predictor inputs; it is never persisted.
type Input struct {
	Age               int    `json:"age" validate:"required,min=10,max=25"`
	Gender            string `json:"gender"`
	Absences          int    `json:"absences" validate:"min=0,max=100"`
	StudyTime         int    `json:"study_time" validate:"min=0,max=60"` // hours/week
	ParentalEducation string `json:"parental_education" validate:"required"`
	ParentalSupport   string `json:"parental_support" validate:"required"`
	Ethnicity         string `json:"ethnicity"`
	Sports            bool   `json:"sports"`
}

// Result is derived purely from Input.
type Result struct {
	ExpectedPercentage float64 `json:"expected_percentage"`
	PredictedGrade     string  `json:"predicted_grade"`
	FormulaVersion     string  `json:"formula_version"`
}

// Predict applies the v1 formula. Deterministic: identical inputs always
// produce identical results, and a higher absence count, all else equal,
// never increases the expected percentage.
func Predict(in Input) Result {
	score := 45.0
	score += math.Min(float64(in.StudyTime), 25) * 1.8
	score -= math.Min(float64(in.Absences), 30) * 1.4
	if boost, ok := educationBoost[in.ParentalEducation]; ok {
		score += boost
	} else {
		score += educationBoost["High School"]
	}
	if boost, ok := supportBoost[in.ParentalSupport]; ok {
		score += boost
	} else {
		score += supportBoost["Moderate"]
	}
	if in.Sports {
		score += 3
	}
	score -= math.Abs(float64(in.Age)-16.5) * 0.8

	score = clamp(score, 0, 100)
	return Result{
		ExpectedPercentage: score,
		PredictedGrade:     Grade(score),
		FormulaVersion:     FormulaVersion,
	}
}

// Grade buckets a percentage into a letter grade at the fixed cutoffs.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
