// Package catalog holds an in-memory snapshot of the price catalog, read once
// per request from the store and passed into the calculation engine.
package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aldervall/takkalkyl/internal/model"
)

// ErrMissingConstant means a required fixed constant is absent from the
// catalog. The engine cannot price anything without it.
var ErrMissingConstant = errors.New("missing fixed constant")

// Snapshot is the price catalog as visible at one point in time. Admin edits
// made after the snapshot was read do not affect an in-flight calculation.
type Snapshot struct {
	RoofTypes        map[uuid.UUID]model.RoofType
	MaterialTypes    map[uuid.UUID]model.MaterialType
	ScaffoldingSizes map[uuid.UUID]model.ScaffoldingSize
	ChimneyTypes     map[uuid.UUID]model.ChimneyType
	Categories       map[string]model.CategoryPrice
	Constants        map[string]float64
}

// RoofType resolves an optional roof type reference. A nil or unknown id
// reports false, never an error.
func (s Snapshot) RoofType(id *uuid.UUID) (model.RoofType, bool) {
	if id == nil {
		return model.RoofType{}, false
	}
	entry, ok := s.RoofTypes[*id]
	return entry, ok
}

func (s Snapshot) MaterialType(id *uuid.UUID) (model.MaterialType, bool) {
	if id == nil {
		return model.MaterialType{}, false
	}
	entry, ok := s.MaterialTypes[*id]
	return entry, ok
}

func (s Snapshot) ScaffoldingSize(id *uuid.UUID) (model.ScaffoldingSize, bool) {
	if id == nil {
		return model.ScaffoldingSize{}, false
	}
	entry, ok := s.ScaffoldingSizes[*id]
	return entry, ok
}

func (s Snapshot) ChimneyType(id *uuid.UUID) (model.ChimneyType, bool) {
	if id == nil {
		return model.ChimneyType{}, false
	}
	entry, ok := s.ChimneyTypes[*id]
	return entry, ok
}

func (s Snapshot) Category(name string) (model.CategoryPrice, bool) {
	entry, ok := s.Categories[name]
	return entry, ok
}

// Constant resolves a required fixed constant. Unlike the entity lookups
// above, a miss here is fatal for the calculation.
func (s Snapshot) Constant(name string) (float64, error) {
	value, ok := s.Constants[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingConstant, name)
	}
	return value, nil
}
