package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldervall/takkalkyl/internal/catalog"
	"github.com/aldervall/takkalkyl/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Snapshot reads the full price catalog. Each calculation prices against the
// catalog as it stood at this read; concurrent admin edits land in later
// snapshots.
func (r *CatalogRepository) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	snapshot := catalog.Snapshot{
		RoofTypes:        map[uuid.UUID]model.RoofType{},
		MaterialTypes:    map[uuid.UUID]model.MaterialType{},
		ScaffoldingSizes: map[uuid.UUID]model.ScaffoldingSize{},
		ChimneyTypes:     map[uuid.UUID]model.ChimneyType{},
		Categories:       map[string]model.CategoryPrice{},
		Constants:        map[string]float64{},
	}

	roofTypes, err := r.ListRoofTypes(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range roofTypes {
		snapshot.RoofTypes[entry.ID] = entry
	}

	materialTypes, err := r.ListMaterialTypes(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range materialTypes {
		snapshot.MaterialTypes[entry.ID] = entry
	}

	scaffoldingSizes, err := r.ListScaffoldingSizes(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range scaffoldingSizes {
		snapshot.ScaffoldingSizes[entry.ID] = entry
	}

	chimneyTypes, err := r.ListChimneyTypes(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range chimneyTypes {
		snapshot.ChimneyTypes[entry.ID] = entry
	}

	categories, err := r.ListCategoryPrices(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range categories {
		snapshot.Categories[entry.Name] = entry
	}

	constants, err := r.ListConstants(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	for _, entry := range constants {
		snapshot.Constants[entry.Name] = entry.Value
	}

	return snapshot, nil
}

func (r *CatalogRepository) ListRoofTypes(ctx context.Context) ([]model.RoofType, error) {
	var entries []model.RoofType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, material_cost
		FROM roof_types
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) CreateRoofType(ctx context.Context, name string, materialCost int) (*model.RoofType, error) {
	var entry model.RoofType
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO roof_types (name, material_cost)
		VALUES (?, ?)
		RETURNING id, name, material_cost
	`, name, materialCost).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) UpdateRoofType(ctx context.Context, id uuid.UUID, name string, materialCost int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE roof_types
		SET name = ?, material_cost = ?
		WHERE id = ?
	`, name, materialCost, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteRoofType(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM roof_types WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListMaterialTypes(ctx context.Context) ([]model.MaterialType, error) {
	var entries []model.MaterialType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, cost_per_kvm
		FROM material_types
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) CreateMaterialType(ctx context.Context, name string, costPerKvm int) (*model.MaterialType, error) {
	var entry model.MaterialType
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO material_types (name, cost_per_kvm)
		VALUES (?, ?)
		RETURNING id, name, cost_per_kvm
	`, name, costPerKvm).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) UpdateMaterialType(ctx context.Context, id uuid.UUID, name string, costPerKvm int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE material_types
		SET name = ?, cost_per_kvm = ?
		WHERE id = ?
	`, name, costPerKvm, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteMaterialType(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM material_types WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListScaffoldingSizes(ctx context.Context) ([]model.ScaffoldingSize, error) {
	var entries []model.ScaffoldingSize
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, cost
		FROM scaffolding_sizes
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) CreateScaffoldingSize(ctx context.Context, name string, cost int) (*model.ScaffoldingSize, error) {
	var entry model.ScaffoldingSize
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO scaffolding_sizes (name, cost)
		VALUES (?, ?)
		RETURNING id, name, cost
	`, name, cost).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) UpdateScaffoldingSize(ctx context.Context, id uuid.UUID, name string, cost int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE scaffolding_sizes
		SET name = ?, cost = ?
		WHERE id = ?
	`, name, cost, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteScaffoldingSize(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM scaffolding_sizes WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListChimneyTypes(ctx context.Context) ([]model.ChimneyType, error) {
	var entries []model.ChimneyType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, material_cost, labor_cost
		FROM chimney_types
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) CreateChimneyType(ctx context.Context, name string, materialCost, laborCost int) (*model.ChimneyType, error) {
	var entry model.ChimneyType
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO chimney_types (name, material_cost, labor_cost)
		VALUES (?, ?, ?)
		RETURNING id, name, material_cost, labor_cost
	`, name, materialCost, laborCost).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) UpdateChimneyType(ctx context.Context, id uuid.UUID, name string, materialCost, laborCost int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE chimney_types
		SET name = ?, material_cost = ?, labor_cost = ?
		WHERE id = ?
	`, name, materialCost, laborCost, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteChimneyType(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM chimney_types WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListCategoryPrices(ctx context.Context) ([]model.CategoryPrice, error) {
	var entries []model.CategoryPrice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, material, labor, unit_type
		FROM category_prices
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) CreateCategoryPrice(ctx context.Context, name string, material, labor int, unitType model.UnitType) (*model.CategoryPrice, error) {
	var entry model.CategoryPrice
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO category_prices (name, material, labor, unit_type)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, material, labor, unit_type
	`, name, material, labor, unitType).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) UpdateCategoryPrice(ctx context.Context, id uuid.UUID, name string, material, labor int, unitType model.UnitType) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE category_prices
		SET name = ?, material = ?, labor = ?, unit_type = ?
		WHERE id = ?
	`, name, material, labor, unitType, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteCategoryPrice(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM category_prices WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListConstants(ctx context.Context) ([]model.FixedConstant, error) {
	var entries []model.FixedConstant
	err := r.db.WithContext(ctx).Raw(`
		SELECT name, value
		FROM fixed_constants
		ORDER BY name
	`).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) UpsertConstant(ctx context.Context, name string, value float64) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO fixed_constants (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, name, value, time.Now().UTC()).Error
}
