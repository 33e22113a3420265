package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldervall/takkalkyl/internal/calc"
	"github.com/aldervall/takkalkyl/internal/catalog"
	"github.com/aldervall/takkalkyl/internal/config"
	"github.com/aldervall/takkalkyl/internal/model"
)

type CatalogReader interface {
	Snapshot(ctx context.Context) (catalog.Snapshot, error)
}

type CalculationStore interface {
	Create(ctx context.Context, calculation *model.Calculation) (*model.Calculation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Calculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Calculation, error)
	ListAll(ctx context.Context) ([]model.Calculation, error)
	UpdatePipeline(ctx context.Context, id uuid.UUID, calculationType model.CalculationType, marginPercent, marginPrice int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CalculationService struct {
	calculations CalculationStore
	catalog      CatalogReader
	cfg          *config.Config
}

func NewCalculationService(calculations CalculationStore, catalogReader CatalogReader, cfg *config.Config) *CalculationService {
	return &CalculationService{
		calculations: calculations,
		catalog:      catalogReader,
		cfg:          cfg,
	}
}

// Create validates the quote input, prices it against the current catalog
// snapshot and persists the result. The stored cost fields are final.
func (s *CalculationService) Create(ctx context.Context, principal model.Principal, input model.CalculationInput) (*model.Calculation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := calc.Compute(input, snapshot)
	if err != nil {
		return nil, err
	}

	return s.calculations.Create(ctx, &model.Calculation{
		UserID:          principal.UserID,
		TotalCost:       breakdown.TotalCost,
		LaborCost:       breakdown.LaborCost,
		MaterialCost:    breakdown.MaterialCost,
		RotAvdrag:       breakdown.RotAvdrag,
		CalculationType: model.CalculationTypeCalc,
		InputData:       input,
	})
}

func (s *CalculationService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Calculation, error) {
	calculation, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return calculation, nil
}

// List returns the caller's own calculations; admins see everyone's.
func (s *CalculationService) List(ctx context.Context, principal model.Principal) ([]model.Calculation, error) {
	if principal.IsAdmin() {
		return s.calculations.ListAll(ctx)
	}
	return s.calculations.ListByUser(ctx, principal.UserID)
}

func (s *CalculationService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	calculation, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return err
	}
	if calculation.UserID != principal.UserID {
		return ErrPermissionDenied
	}
	return s.calculations.Delete(ctx, id)
}

// PricePreview derives the payable price for a stored calculation at the
// given margin. A nil margin falls back to the configured slider default.
// Pure read; nothing is written back.
func (s *CalculationService) PricePreview(ctx context.Context, principal model.Principal, id uuid.UUID, marginPercent *int) (*calc.Payable, error) {
	margin := s.cfg.Margin.DefaultPercent
	if marginPercent != nil {
		margin = *marginPercent
	}
	if err := s.validateMargin(margin); err != nil {
		return nil, err
	}

	calculation, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rotPercent, err := snapshot.Constant(model.ConstRotPercent)
	if err != nil {
		return nil, err
	}

	payable := calc.DerivePayable(
		calculation.TotalCost,
		calculation.LaborCost,
		calculation.InputData.OwnerAmount,
		margin,
		rotPercent,
	)
	return &payable, nil
}

// SetPipeline moves a calculation to another pipeline stage and locks in the
// chosen margin. The margin price is recomputed server-side; clients never
// submit prices.
func (s *CalculationService) SetPipeline(
	ctx context.Context,
	principal model.Principal,
	id uuid.UUID,
	calculationType model.CalculationType,
	marginPercent int,
) (*model.Calculation, error) {
	switch calculationType {
	case model.CalculationTypeCalc, model.CalculationTypeDemo, model.CalculationTypeDeal, model.CalculationTypeProject:
	default:
		return nil, fmt.Errorf("%w: unknown calculation type %q", ErrInvalidInput, calculationType)
	}
	if err := s.validateMargin(marginPercent); err != nil {
		return nil, err
	}

	calculation, err := s.getVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if calculation.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}

	marginPrice := calc.MarginPrice(calculation.TotalCost, marginPercent)
	if err := s.calculations.UpdatePipeline(ctx, id, calculationType, marginPercent, marginPrice); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	calculation.CalculationType = calculationType
	calculation.MarginPercent = &marginPercent
	calculation.MarginPrice = &marginPrice
	return calculation, nil
}

func (s *CalculationService) getVisible(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Calculation, error) {
	calculation, err := s.calculations.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && calculation.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return calculation, nil
}

func (s *CalculationService) validateMargin(marginPercent int) error {
	if marginPercent < 0 || marginPercent > s.cfg.Margin.MaxPercent {
		return fmt.Errorf("%w: margin_percent must be between 0 and %d", ErrInvalidInput, s.cfg.Margin.MaxPercent)
	}
	return nil
}

func validateInput(input model.CalculationInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}
	if input.OwnerAmount != 1 && input.OwnerAmount != 2 {
		return fmt.Errorf("%w: owner_amount must be 1 or 2", ErrInvalidInput)
	}
	if input.Area < 0 {
		return fmt.Errorf("%w: area must not be negative", ErrInvalidInput)
	}
	if input.Raspont < 0 {
		return fmt.Errorf("%w: raspont must not be negative", ErrInvalidInput)
	}
	if input.Milage < 0 {
		return fmt.Errorf("%w: milage must not be negative", ErrInvalidInput)
	}
	switch input.Underlay {
	case "", model.UnderlayPapp, model.UnderlayDuk:
	default:
		return fmt.Errorf("%w: unknown underlay type %q", ErrInvalidInput, input.Underlay)
	}
	for name, quantity := range input.Categories {
		if quantity < 0 {
			return fmt.Errorf("%w: category %q must not be negative", ErrInvalidInput, name)
		}
	}
	return nil
}
