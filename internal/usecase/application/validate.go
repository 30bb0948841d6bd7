package application

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"loan-portal/internal/domain/apperr"
)

const (
	MinTenure     = 1
	MaxTenure     = 120
	maxCollateral = 200
	maxNotes      = 500
	MaxBatchIDs   = 500
)

func lenBetween(ve *apperr.ValidationError, field, v string, min, max int) {
	n := utf8.RuneCountInString(v)
	switch {
	case n < min:
		ve.Add(field, "must be at least "+strconv.Itoa(min)+" characters")
	case n > max:
		ve.Add(field, "must be at most "+strconv.Itoa(max)+" characters")
	}
}

func (in *CreateInput) normalize() {
	in.Employment = strings.TrimSpace(in.Employment)
	in.Purpose = strings.TrimSpace(in.Purpose)
	in.Collateral = strings.TrimSpace(in.Collateral)
	in.Notes = strings.TrimSpace(in.Notes)
}

func (in CreateInput) validate(minAmount int64) error {
	ve := &apperr.ValidationError{}
	if in.Amount < minAmount {
		ve.Add("amount", "must be greater than or equal to "+strconv.FormatInt(minAmount, 10))
	}
	if in.Tenure < MinTenure || in.Tenure > MaxTenure {
		ve.Add("tenure", "must be between 1 and 120 months")
	}
	if in.Income <= 0 {
		ve.Add("income", "must be greater than 0")
	}
	lenBetween(ve, "employment", in.Employment, 2, 80)
	lenBetween(ve, "purpose", in.Purpose, 2, 80)
	lenBetween(ve, "collateral", in.Collateral, 0, maxCollateral)
	lenBetween(ve, "notes", in.Notes, 0, maxNotes)
	return ve.OrNil()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
