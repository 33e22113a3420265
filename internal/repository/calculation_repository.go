package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldervall/takkalkyl/internal/model"
)

type CalculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

// calculationRow mirrors the calculations table; input_data is stored as JSONB.
type calculationRow struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TotalCost       int
	LaborCost       int
	MaterialCost    int
	RotAvdrag       int
	MarginPrice     *int
	MarginPercent   *int
	CalculationType model.CalculationType
	InputData       []byte
	CreatedAt       time.Time
}

func (row calculationRow) toModel() (*model.Calculation, error) {
	var input model.CalculationInput
	if len(row.InputData) > 0 {
		if err := json.Unmarshal(row.InputData, &input); err != nil {
			return nil, fmt.Errorf("decode input_data for calculation %s: %w", row.ID, err)
		}
	}
	return &model.Calculation{
		ID:              row.ID,
		UserID:          row.UserID,
		TotalCost:       row.TotalCost,
		LaborCost:       row.LaborCost,
		MaterialCost:    row.MaterialCost,
		RotAvdrag:       row.RotAvdrag,
		MarginPrice:     row.MarginPrice,
		MarginPercent:   row.MarginPercent,
		CalculationType: row.CalculationType,
		InputData:       input,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func (r *CalculationRepository) Create(ctx context.Context, calculation *model.Calculation) (*model.Calculation, error) {
	inputData, err := json.Marshal(calculation.InputData)
	if err != nil {
		return nil, fmt.Errorf("encode input_data: %w", err)
	}

	var row calculationRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO calculations (
			user_id,
			total_cost,
			labor_cost,
			material_cost,
			rot_avdrag,
			calculation_type,
			input_data
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			user_id,
			total_cost,
			labor_cost,
			material_cost,
			rot_avdrag,
			margin_price,
			margin_percent,
			calculation_type,
			input_data,
			created_at
	`,
		calculation.UserID,
		calculation.TotalCost,
		calculation.LaborCost,
		calculation.MaterialCost,
		calculation.RotAvdrag,
		calculation.CalculationType,
		inputData,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *CalculationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Calculation, error) {
	var row calculationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			total_cost,
			labor_cost,
			material_cost,
			rot_avdrag,
			margin_price,
			margin_percent,
			calculation_type,
			input_data,
			created_at
		FROM calculations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return row.toModel()
}

func (r *CalculationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error) {
	var rows []calculationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			total_cost,
			labor_cost,
			material_cost,
			rot_avdrag,
			margin_price,
			margin_percent,
			calculation_type,
			input_data,
			created_at
		FROM calculations
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows)
}

func (r *CalculationRepository) ListAll(ctx context.Context) ([]model.Calculation, error) {
	var rows []calculationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			total_cost,
			labor_cost,
			material_cost,
			rot_avdrag,
			margin_price,
			margin_percent,
			calculation_type,
			input_data,
			created_at
		FROM calculations
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows)
}

// UpdatePipeline moves a calculation through the sales pipeline. The cost
// fields are intentionally not part of this statement.
func (r *CalculationRepository) UpdatePipeline(
	ctx context.Context,
	id uuid.UUID,
	calculationType model.CalculationType,
	marginPercent int,
	marginPrice int,
) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE calculations
		SET
			calculation_type = ?,
			margin_percent = ?,
			margin_price = ?
		WHERE id = ?
	`, calculationType, marginPercent, marginPrice, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CalculationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM calculations WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toModels(rows []calculationRow) ([]model.Calculation, error) {
	calculations := make([]model.Calculation, 0, len(rows))
	for _, row := range rows {
		calculation, err := row.toModel()
		if err != nil {
			return nil, err
		}
		calculations = append(calculations, *calculation)
	}
	return calculations, nil
}
