package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'calculation_type') THEN
			CREATE TYPE calculation_type AS ENUM ('calc', 'demo', 'deal', 'project');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'unit_type') THEN
			CREATE TYPE unit_type AS ENUM ('count', 'linear_meters');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS roof_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		material_cost INTEGER NOT NULL CHECK (material_cost >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS material_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		cost_per_kvm INTEGER NOT NULL CHECK (cost_per_kvm >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS scaffolding_sizes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		cost INTEGER NOT NULL CHECK (cost >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS chimney_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		material_cost INTEGER NOT NULL CHECK (material_cost >= 0),
		labor_cost INTEGER NOT NULL CHECK (labor_cost >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS category_prices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		material INTEGER NOT NULL CHECK (material >= 0),
		labor INTEGER NOT NULL CHECK (labor >= 0),
		unit_type unit_type NOT NULL DEFAULT 'count'
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_category_prices_name ON category_prices (name);`,
	`CREATE TABLE IF NOT EXISTS fixed_constants (
		name VARCHAR(64) PRIMARY KEY,
		value NUMERIC(18,4) NOT NULL CHECK (value >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS calculations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL,
		total_cost INTEGER NOT NULL,
		labor_cost INTEGER NOT NULL,
		material_cost INTEGER NOT NULL,
		rot_avdrag INTEGER NOT NULL,
		margin_price INTEGER,
		margin_percent INTEGER,
		calculation_type calculation_type NOT NULL DEFAULT 'calc',
		input_data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_user_id ON calculations (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_calculations_type ON calculations (calculation_type);`,
	// Seed the required constants so a fresh database can price a quote.
	// Values are admin-tunable afterwards.
	`INSERT INTO fixed_constants (name, value) VALUES
		('raspont_removal_material', 200),
		('raspont_removal_labor', 300),
		('raspont_no_removal_material', 180),
		('raspont_no_removal_labor', 200),
		('disposal_fee', 5000),
		('advanced_scaffolding_fee', 10000),
		('two_floor_scaffolding_fee', 15000),
		('mile_rate', 50),
		('material_markup_percent', 10),
		('total_markup_percent', 5),
		('rot_percent', 30)
	ON CONFLICT (name) DO NOTHING;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
