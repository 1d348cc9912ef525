// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"slices"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ledger/internal/summary"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("ledger_category", validateCategory)
	_ = v.RegisterValidation("record_kind", validateRecordKind)
	_ = v.RegisterValidation("sort_field", validateSortField)
	_ = v.RegisterValidation("sort_order", validateSortOrder)
}

// validateCategory accepts any category of either kind. The per-kind check
// happens in the record service, which knows which kind is being written.
func validateCategory(fl validator.FieldLevel) bool {
	return slices.Contains(summary.AllCategories(), fl.Field().String())
}

func validateRecordKind(fl validator.FieldLevel) bool {
	return summary.Kind(fl.Field().String()).Valid()
}

func validateSortField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "date", "amount", "category":
		return true
	}
	return false
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "asc", "desc":
		return true
	}
	return false
}
