package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxRating is the top of the review scale.
const MaxRating = 5.0

// ValidateVehicle checks the invariants of a single listing. An empty
// exterior gallery is allowed; PrimaryImage copes with it.
func ValidateVehicle(v Vehicle) error {
	if strings.TrimSpace(v.Make) == "" {
		return NewValidationError("make", v.Make, ErrMissingField)
	}
	if strings.TrimSpace(v.Model) == "" {
		return NewValidationError("model", v.Model, ErrMissingField)
	}
	if v.Price < 0 {
		return NewValidationError("price", strconv.Itoa(v.Price), ErrNegativePrice)
	}
	if v.Rating != nil && (*v.Rating < 0 || *v.Rating > MaxRating) {
		return NewValidationError("rating", strconv.FormatFloat(*v.Rating, 'f', -1, 64), ErrRatingOutOfRange)
	}
	for _, c := range v.Colors {
		if c.Price < 0 {
			return NewValidationError("colors."+c.Name, strconv.Itoa(c.Price), ErrNegativePrice)
		}
	}
	return nil
}

// ValidateDataset validates every listing and checks IDs are unique.
// All problems are reported, joined.
func ValidateDataset(vehicles []Vehicle) error {
	var errs []error
	seen := make(map[int]bool, len(vehicles))
	for _, v := range vehicles {
		if seen[v.ID] {
			errs = append(errs, NewValidationError("id", strconv.Itoa(v.ID), ErrDuplicateID))
		}
		seen[v.ID] = true
		if err := ValidateVehicle(v); err != nil {
			errs = append(errs, fmt.Errorf("%w %d: %w", ErrInvalidVehicle, v.ID, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateDealerships checks dealership IDs are unique and ratings in range.
func ValidateDealerships(dealers []Dealership) error {
	var errs []error
	seen := make(map[int]bool, len(dealers))
	for _, d := range dealers {
		if seen[d.ID] {
			errs = append(errs, NewValidationError("dealership.id", strconv.Itoa(d.ID), ErrDuplicateID))
		}
		seen[d.ID] = true
		if d.Rating < 0 || d.Rating > MaxRating {
			errs = append(errs, NewValidationError("dealership.rating", strconv.FormatFloat(d.Rating, 'f', -1, 64), ErrRatingOutOfRange))
		}
	}
	return errors.Join(errs...)
}
