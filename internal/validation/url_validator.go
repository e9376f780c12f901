package validation

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	errpkg "github.com/veranemoloko/range-downloader/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("download_url", validateDownloadURL)
}

// Request is the user input for a single download.
type Request struct {
	URL    string `validate:"required,download_url"`
	Parts  int    `validate:"gte=1"`
	Output string `validate:"required"`
}

// ValidateRequest checks a download request before any network activity.
// Every failure wraps ErrInvalidInput.
func ValidateRequest(req Request) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", errpkg.ErrInvalidInput, err)
	}
	return nil
}

func validateDownloadURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
