package validation

import (
	"encoding/json"
	"errors"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var bitrateRe = regexp.MustCompile(`^[1-9][0-9]{0,6}[kKmM]?$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("medianame", validateMediaName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("videoprofile", func(fl validator.FieldLevel) bool {
		return encoding.IsKnownProfile(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("bitrate", func(fl validator.FieldLevel) bool {
		return bitrateRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// validateMediaName accepts a flat object name with a supported extension.
func validateMediaName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || strings.ContainsAny(name, "/\\") || path.Clean(name) != name {
		return false
	}
	_, err := model.MediaTypeFromName(name)
	return err == nil
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToJson maps each failing field to the tag it failed on.
func ErrorsToJson(validationErrs error) (string, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(validationErrs, &fieldErrs) {
		return "", validationErrs
	}
	errsMap := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
