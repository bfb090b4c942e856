package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nydiokar/analyzer-sub009/internal/models"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// walletAddressPattern matches base58-encoded 32 byte public keys.
var walletAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("wallet_address", validateWalletAddress)
	_ = v.RegisterValidation("queue_name", validateQueueName)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// IsWalletAddress reports whether s looks like a base58 wallet or token address.
func IsWalletAddress(s string) bool {
	return walletAddressPattern.MatchString(s)
}

// IsQueueName reports whether s names a worker queue or the dead-letter queue.
func IsQueueName(s string) bool {
	return models.IsKnownQueue(s) || s == models.DeadLetterQueueName
}

func validateWalletAddress(fl validator.FieldLevel) bool {
	return IsWalletAddress(fl.Field().String())
}

func validateQueueName(fl validator.FieldLevel) bool {
	return IsQueueName(fl.Field().String())
}

// FormatErrors turns validator errors into "field: reason" detail strings.
// Errors of any other type are returned as their message.
func FormatErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, fe.Field()+": "+describe(fe))
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "wallet_address":
		return "must be a valid wallet address"
	case "queue_name":
		return "must be a known queue"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " items"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " items"
		}
		return "must be " + fe.Param() + " or less"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be " + fe.Param() + " or less"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
