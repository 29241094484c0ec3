package models

import (
	"fmt"
	"math"
	"time"
)

// HealthRecord is one structured health-data submission and its stored
// prediction result.
type HealthRecord struct {
	ID                     int64     `json:"health_record_id" db:"id"`
	UserID                 int64     `json:"user_id" db:"user_id"`
	Age                    int       `json:"age" db:"age"`
	Height                 float64   `json:"height" db:"height"` // centimeters
	Weight                 float64   `json:"weight" db:"weight"` // kilograms
	ExerciseFrequency      string    `json:"exercise_frequency" db:"exercise_frequency"`
	FamilyHistory          bool      `json:"family_history" db:"family_history"`
	Diet                   string    `json:"diet" db:"diet"`
	SugaryDrinkConsumption string    `json:"sugary_drink_consumption" db:"sugary_drink_consumption"`
	HighBloodPressure      bool      `json:"high_blood_pressure" db:"high_blood_pressure"`
	StressLevel            string    `json:"stress_level" db:"stress_level"`
	BMI                    float64   `json:"bmi" db:"bmi"`
	PredictionResult       string    `json:"prediction_result" db:"prediction_result"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

// ComputeBMI derives body mass index from height in centimeters and weight in
// kilograms, rounded to two decimals. The stored BMI is always recomputed
// here; a client-supplied value is never trusted.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	heightM := heightCm / 100.0
	return math.Round(weightKg/(heightM*heightM)*100) / 100
}

// PromptSummary serializes the record's submitted fields for the
// structured-analysis completion prompt.
func (r *HealthRecord) PromptSummary() string {
	return fmt.Sprintf(
		"{ Age: %d, Height: %.2f cm, Weight: %.2f kg, BMI: %.2f, Exercise Frequency: %s, Family History: %s, Diet: %s, Sugary Drink Consumption: %s, High Blood Pressure: %s, Stress Level: %s }",
		r.Age,
		r.Height,
		r.Weight,
		r.BMI,
		r.ExerciseFrequency,
		yesNo(r.FamilyHistory),
		r.Diet,
		r.SugaryDrinkConsumption,
		yesNo(r.HighBloodPressure),
		r.StressLevel,
	)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
