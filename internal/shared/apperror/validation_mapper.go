package apperror

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Init makes gin's validator report json field names (break_minutes, not BreakMinutes).
// Call once at startup before serving requests.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// break_minutes -> Break Minutes
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError turns binding errors into a VALIDATION_ERROR AppError.
// Pesan diambil dari field pertama, detail berisi semua field yang gagal.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeValidation, "Input tidak valid", http.StatusBadRequest).WithDetails(errString(err))
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, FieldViolation{Field: e.Field(), Rule: e.Tag()})
	}

	first := errs[0]
	humanReadableField := formatFieldName(first.Field())
	var base *AppError
	if first.Tag() == "required" {
		base = RequiredField(humanReadableField)
	} else {
		base = InvalidField(humanReadableField)
	}
	base.Code = CodeValidation
	return base.WithDetails(violations)
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
