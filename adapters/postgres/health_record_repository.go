package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"healthmini/models"
	"healthmini/ports"
)

// HealthRecordRepositoryImpl implements HealthRecordRepository for PostgreSQL
type HealthRecordRepositoryImpl struct {
	db *sqlx.DB
}

// NewHealthRecordRepository creates a new PostgreSQL health record repository
func NewHealthRecordRepository(db *sqlx.DB) ports.HealthRecordRepository {
	return &HealthRecordRepositoryImpl{db: db}
}

func (r *HealthRecordRepositoryImpl) Create(ctx context.Context, record *models.HealthRecord) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO health_records
			(user_id, age, height, weight, exercise_frequency, family_history, diet, sugary_drink_consumption, high_blood_pressure, stress_level, bmi, prediction_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, record.UserID, record.Age, record.Height, record.Weight, record.ExerciseFrequency,
		record.FamilyHistory, record.Diet, record.SugaryDrinkConsumption,
		record.HighBloodPressure, record.StressLevel, record.BMI,
		record.PredictionResult, record.CreatedAt).Scan(&record.ID)
	return translate(err, "health record")
}

func (r *HealthRecordRepositoryImpl) ListByUser(ctx context.Context, userID int64) ([]*models.HealthRecord, error) {
	var records []*models.HealthRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, user_id, age, height, weight, exercise_frequency, family_history, diet, sugary_drink_consumption, high_blood_pressure, stress_level, bmi, prediction_result, created_at
		FROM health_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, translate(err, "health records")
	}
	return records, nil
}
