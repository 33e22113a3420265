package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldervall/takkalkyl/internal/model"
	"github.com/aldervall/takkalkyl/internal/repository"
)

// CatalogService carries the admin configuration of the price catalog.
// Authorization (admin role) is enforced by the router; this layer validates
// values before they reach the store.
type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Overview is the read-only catalog served to the quote form.
type Overview struct {
	RoofTypes        []model.RoofType        `json:"roofTypes"`
	MaterialTypes    []model.MaterialType    `json:"materialTypes"`
	ScaffoldingSizes []model.ScaffoldingSize `json:"scaffoldingSizes"`
	ChimneyTypes     []model.ChimneyType     `json:"chimneyTypes"`
	CategoryPrices   []model.CategoryPrice   `json:"categoryPrices"`
}

func (s *CatalogService) Overview(ctx context.Context) (*Overview, error) {
	roofTypes, err := s.repo.ListRoofTypes(ctx)
	if err != nil {
		return nil, err
	}
	materialTypes, err := s.repo.ListMaterialTypes(ctx)
	if err != nil {
		return nil, err
	}
	scaffoldingSizes, err := s.repo.ListScaffoldingSizes(ctx)
	if err != nil {
		return nil, err
	}
	chimneyTypes, err := s.repo.ListChimneyTypes(ctx)
	if err != nil {
		return nil, err
	}
	categoryPrices, err := s.repo.ListCategoryPrices(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		RoofTypes:        roofTypes,
		MaterialTypes:    materialTypes,
		ScaffoldingSizes: scaffoldingSizes,
		ChimneyTypes:     chimneyTypes,
		CategoryPrices:   categoryPrices,
	}, nil
}

func (s *CatalogService) ListRoofTypes(ctx context.Context) ([]model.RoofType, error) {
	return s.repo.ListRoofTypes(ctx)
}

func (s *CatalogService) CreateRoofType(ctx context.Context, name string, materialCost int) (*model.RoofType, error) {
	if err := validateEntry(name, materialCost); err != nil {
		return nil, err
	}
	return s.repo.CreateRoofType(ctx, strings.TrimSpace(name), materialCost)
}

func (s *CatalogService) UpdateRoofType(ctx context.Context, id uuid.UUID, name string, materialCost int) error {
	if err := validateEntry(name, materialCost); err != nil {
		return err
	}
	return translateNotFound(s.repo.UpdateRoofType(ctx, id, strings.TrimSpace(name), materialCost))
}

func (s *CatalogService) DeleteRoofType(ctx context.Context, id uuid.UUID) error {
	return translateNotFound(s.repo.DeleteRoofType(ctx, id))
}

func (s *CatalogService) ListMaterialTypes(ctx context.Context) ([]model.MaterialType, error) {
	return s.repo.ListMaterialTypes(ctx)
}

func (s *CatalogService) CreateMaterialType(ctx context.Context, name string, costPerKvm int) (*model.MaterialType, error) {
	if err := validateEntry(name, costPerKvm); err != nil {
		return nil, err
	}
	return s.repo.CreateMaterialType(ctx, strings.TrimSpace(name), costPerKvm)
}

func (s *CatalogService) UpdateMaterialType(ctx context.Context, id uuid.UUID, name string, costPerKvm int) error {
	if err := validateEntry(name, costPerKvm); err != nil {
		return err
	}
	return translateNotFound(s.repo.UpdateMaterialType(ctx, id, strings.TrimSpace(name), costPerKvm))
}

func (s *CatalogService) DeleteMaterialType(ctx context.Context, id uuid.UUID) error {
	return translateNotFound(s.repo.DeleteMaterialType(ctx, id))
}

func (s *CatalogService) ListScaffoldingSizes(ctx context.Context) ([]model.ScaffoldingSize, error) {
	return s.repo.ListScaffoldingSizes(ctx)
}

func (s *CatalogService) CreateScaffoldingSize(ctx context.Context, name string, cost int) (*model.ScaffoldingSize, error) {
	if err := validateEntry(name, cost); err != nil {
		return nil, err
	}
	return s.repo.CreateScaffoldingSize(ctx, strings.TrimSpace(name), cost)
}

func (s *CatalogService) UpdateScaffoldingSize(ctx context.Context, id uuid.UUID, name string, cost int) error {
	if err := validateEntry(name, cost); err != nil {
		return err
	}
	return translateNotFound(s.repo.UpdateScaffoldingSize(ctx, id, strings.TrimSpace(name), cost))
}

func (s *CatalogService) DeleteScaffoldingSize(ctx context.Context, id uuid.UUID) error {
	return translateNotFound(s.repo.DeleteScaffoldingSize(ctx, id))
}

func (s *CatalogService) ListChimneyTypes(ctx context.Context) ([]model.ChimneyType, error) {
	return s.repo.ListChimneyTypes(ctx)
}

func (s *CatalogService) CreateChimneyType(ctx context.Context, name string, materialCost, laborCost int) (*model.ChimneyType, error) {
	if err := validateEntry(name, materialCost, laborCost); err != nil {
		return nil, err
	}
	return s.repo.CreateChimneyType(ctx, strings.TrimSpace(name), materialCost, laborCost)
}

func (s *CatalogService) UpdateChimneyType(ctx context.Context, id uuid.UUID, name string, materialCost, laborCost int) error {
	if err := validateEntry(name, materialCost, laborCost); err != nil {
		return err
	}
	return translateNotFound(s.repo.UpdateChimneyType(ctx, id, strings.TrimSpace(name), materialCost, laborCost))
}

func (s *CatalogService) DeleteChimneyType(ctx context.Context, id uuid.UUID) error {
	return translateNotFound(s.repo.DeleteChimneyType(ctx, id))
}

func (s *CatalogService) ListCategoryPrices(ctx context.Context) ([]model.CategoryPrice, error) {
	return s.repo.ListCategoryPrices(ctx)
}

func (s *CatalogService) CreateCategoryPrice(ctx context.Context, name string, material, labor int, unitType model.UnitType) (*model.CategoryPrice, error) {
	if err := validateCategory(name, material, labor, unitType); err != nil {
		return nil, err
	}
	return s.repo.CreateCategoryPrice(ctx, strings.TrimSpace(name), material, labor, unitType)
}

func (s *CatalogService) UpdateCategoryPrice(ctx context.Context, id uuid.UUID, name string, material, labor int, unitType model.UnitType) error {
	if err := validateCategory(name, material, labor, unitType); err != nil {
		return err
	}
	return translateNotFound(s.repo.UpdateCategoryPrice(ctx, id, strings.TrimSpace(name), material, labor, unitType))
}

func (s *CatalogService) DeleteCategoryPrice(ctx context.Context, id uuid.UUID) error {
	return translateNotFound(s.repo.DeleteCategoryPrice(ctx, id))
}

func (s *CatalogService) ListConstants(ctx context.Context) ([]model.FixedConstant, error) {
	return s.repo.ListConstants(ctx)
}

// SetConstant updates one fixed constant. Only known names are accepted so a
// typo cannot leave the engine without a constant it requires.
func (s *CatalogService) SetConstant(ctx context.Context, name string, value float64) error {
	if !model.IsKnownConstant(name) {
		return fmt.Errorf("%w: unknown constant %q", ErrInvalidInput, name)
	}
	if value < 0 {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
	}
	return s.repo.UpsertConstant(ctx, name, value)
}

func validateEntry(name string, costs ...int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	for _, cost := range costs {
		if cost < 0 {
			return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
		}
	}
	return nil
}

func validateCategory(name string, material, labor int, unitType model.UnitType) error {
	if err := validateEntry(name, material, labor); err != nil {
		return err
	}
	switch unitType {
	case model.UnitCount, model.UnitLinearMeters:
		return nil
	default:
		return fmt.Errorf("%w: unknown unit type %q", ErrInvalidInput, unitType)
	}
}

func translateNotFound(err error) error {
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	return err
}
