// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cryptofolio/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset_kind", validateAssetKind)
		_ = v.RegisterValidation("check_interval", validateCheckInterval)
		_ = v.RegisterValidation("report_period", validateReportPeriod)
	}
}

func validateAssetKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "crypto", "nft":
		return true
	}
	return false
}

func validateCheckInterval(fl validator.FieldLevel) bool {
	return models.ValidCheckInterval(int(fl.Field().Int()))
}

func validateReportPeriod(fl validator.FieldLevel) bool {
	return models.ValidPeriod(fl.Field().String())
}
