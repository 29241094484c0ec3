package app

import (
	"context"
	"time"

	"healthmini/internal/errors"
	"healthmini/internal/keylock"
	"healthmini/models"
	"healthmini/ports"
)

// predictionCooldown is the FREE-tier spacing between health analyses.
const predictionCooldown = 7 * 24 * time.Hour

// PredictionInput carries the caller-supplied health fields. Any BMI a
// client sends is ignored; it is always recomputed from height and weight.
type PredictionInput struct {
	Age                    int     `json:"age"`
	Height                 float64 `json:"height"` // centimeters
	Weight                 float64 `json:"weight"` // kilograms
	ExerciseFrequency      string  `json:"exercise_frequency"`
	FamilyHistory          bool    `json:"family_history"`
	Diet                   string  `json:"diet"`
	SugaryDrinkConsumption string  `json:"sugary_drink_consumption"`
	HighBloodPressure      bool    `json:"high_blood_pressure"`
	StressLevel            string  `json:"stress_level"`
}

// PredictionService runs the structured health-data submission workflow.
// Submissions are serialized per user so the FREE-tier cooldown check and
// its stamp cannot interleave; unlike advice turns, the gateway call stays
// inside the lock, which only ever blocks the same user's next submission.
type PredictionService struct {
	users      ports.UserRepository
	records    ports.HealthRecordRepository
	completion ports.CompletionClient
	locks      *keylock.KeyedMutex
	now        func() time.Time
}

// NewPredictionService creates a prediction service.
func NewPredictionService(users ports.UserRepository, records ports.HealthRecordRepository, completion ports.CompletionClient) *PredictionService {
	return &PredictionService{
		users:      users,
		records:    records,
		completion: completion,
		locks:      keylock.New(),
		now:        time.Now,
	}
}

// SubmitPrediction validates the submission, computes BMI server-side, asks
// the gateway for a structured analysis, persists the record with its result
// and, for FREE users, stamps the cooldown clock.
func (s *PredictionService) SubmitPrediction(ctx context.Context, userID int64, input PredictionInput) (*models.HealthRecord, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if user.SubscriptionPlan == models.PlanFree && user.LastPromptTime != nil {
		if now.Before(user.LastPromptTime.Add(predictionCooldown)) {
			return nil, errors.CooldownActive("as a FREE user, you can submit only 1 health analysis per 7 days")
		}
	}

	if input.Age <= 0 {
		return nil, errors.InvalidInput("age must be positive")
	}
	if input.Height <= 0 {
		return nil, errors.InvalidInput("height must be positive")
	}
	if input.Weight <= 0 {
		return nil, errors.InvalidInput("weight must be positive")
	}

	record := &models.HealthRecord{
		UserID:                 user.ID,
		Age:                    input.Age,
		Height:                 input.Height,
		Weight:                 input.Weight,
		ExerciseFrequency:      input.ExerciseFrequency,
		FamilyHistory:          input.FamilyHistory,
		Diet:                   input.Diet,
		SugaryDrinkConsumption: input.SugaryDrinkConsumption,
		HighBloodPressure:      input.HighBloodPressure,
		StressLevel:            input.StressLevel,
		BMI:                    models.ComputeBMI(input.Height, input.Weight),
		CreatedAt:              now,
	}

	prediction, err := s.completion.Complete(ctx, record.PromptSummary(), ports.ModeAnalysis)
	if err != nil {
		return nil, err
	}
	record.PredictionResult = prediction

	if err := s.records.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "saving health record")
	}

	if user.SubscriptionPlan == models.PlanFree {
		user.LastPromptTime = &now
		if err := s.users.Update(ctx, user); err != nil {
			return nil, errors.Wrap(err, "updating prediction cooldown")
		}
	}

	return record, nil
}
