package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	usernamePattern      = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	accountNumberPattern = regexp.MustCompile(`^\d{9,10}$`)
	idNumberPattern      = regexp.MustCompile(`^\d{13}$`)
	swiftCodePattern     = regexp.MustCompile(`^[A-Z]{4,5}\d{1,2}$`)
	currencyPattern      = regexp.MustCompile(`^[A-Z]{3}$`)
	personNamePattern    = regexp.MustCompile(`^[A-Za-z]+$`)
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// Amounts are stored as numeric(20,4)
const (
	MoneyScale         = 4
	MoneyIntegerDigits = 16
)

var moneyLimit = decimal.New(1, MoneyIntegerDigits)

// FieldError attributes a validation failure to one input field
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PasswordPolicy describes the password strength rule
type PasswordPolicy struct {
	MinLength      int
	RequireSpecial bool
}

// Describe returns the human readable rule
func (p PasswordPolicy) Describe() string {
	msg := fmt.Sprintf("Password must be at least %d characters long and contain an uppercase letter, a lowercase letter and a number", p.MinLength)
	if p.RequireSpecial {
		msg += " and a special character"
	}
	return msg
}

// Allows reports whether password satisfies the policy
func (p PasswordPolicy) Allows(password string) bool {
	if len([]rune(password)) < p.MinLength || len(password) > MaxPasswordBytes {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if p.RequireSpecial && !special {
		return false
	}
	return upper && lower && digit
}

// Validator runs struct tag rules and returns every field failure at once
type Validator struct {
	validate *validator.Validate
	policy   PasswordPolicy
}

// New creates a validator with the portal's custom rules registered
func New(policy PasswordPolicy) *Validator {
	if policy.MinLength <= 0 {
		policy.MinLength = 8
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]validator.Func{
		"username":           matchString(usernamePattern),
		"account_number":     matchString(accountNumberPattern),
		"id_number":          matchString(idNumberPattern),
		"swift_code":         matchString(swiftCodePattern),
		"currency_code":      matchString(currencyPattern),
		"person_name":        matchString(personNamePattern),
		"not_account_number": func(fl validator.FieldLevel) bool { return !IsAccountNumber(fl.Field().String()) },
		"identifier":         func(fl validator.FieldLevel) bool { return IsIdentifier(fl.Field().String()) },
		"notblank":           func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
		"strong_password":    func(fl validator.FieldLevel) bool { return policy.Allows(fl.Field().String()) },
		"money":              moneyField,
	}
	for tag, fn := range rules {
		// registration only fails on an empty tag or nil func
		_ = v.RegisterValidation(tag, fn)
	}

	return &Validator{validate: v, policy: policy}
}

// Policy returns the password policy in force
func (v *Validator) Policy() PasswordPolicy {
	return v.policy
}

// Struct validates s and returns one FieldError per failing field, in
// declaration order. A nil result means s is valid.
func (v *Validator) Struct(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "general", Code: "invalid", Message: "Invalid input"}}
	}

	seen := make(map[string]bool, len(verrs))
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out = append(out, FieldError{
			Field:   fe.Field(),
			Code:    codeFor(fe.Tag()),
			Message: v.messageFor(fe),
		})
	}
	return out
}

// IsUsername reports whether s is a well formed username
func IsUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// IsAccountNumber reports whether s is a 9-10 digit account number
func IsAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}

// IsIdentifier reports whether s is a username or an account number
func IsIdentifier(s string) bool {
	return IsAccountNumber(s) || IsUsername(s)
}

// IsMoney reports whether d fits the stored amount precision
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale)) && d.Abs().LessThan(moneyLimit)
}

// moneyField reads the decimal from the parent struct because the
// registered custom type func hands rules a float64.
func moneyField(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	d, ok := parent.FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
	return ok && IsMoney(d)
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func codeFor(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required"
	case "eqfield":
		return "mismatch"
	case "strong_password":
		return "weak_password"
	case "gt", "gte", "min", "max", "lte", "lt", "money":
		return "out_of_range"
	default:
		return "invalid_format"
	}
}

func (v *Validator) messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", displayName(field))
	case "strong_password":
		return v.policy.Describe()
	case "eqfield":
		return "Passwords do not match"
	}

	if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", displayName(field))
}

var fieldMessages = map[string]string{
	"recipientAccountNo.account_number": "Invalid account number. It should have 9 to 10 digits.",
	"accountNumber.account_number":      "Account number must be 9-10 digits",
	"amount.gt":                         "Amount must be a positive number",
	"amount.money":                      "Amount may have at most 16 digits before and 4 after the decimal point",
	"firstName.person_name":             "First name must contain only letters",
	"lastName.person_name":              "Last name must contain only letters",
	"firstName.max":                     "First name must be at most 100 characters",
	"lastName.max":                      "Last name must be at most 100 characters",
	"date.datetime":                     "Date must use the YYYY-MM-DD format",
}

var tagMessages = map[string]string{
	"email":              "Invalid email format",
	"username":           "Username must be 3-20 characters of letters, numbers or underscores",
	"not_account_number": "Username cannot be a 9-10 digit number",
	"identifier":         "Invalid username or account number format",
	"account_number":     "Account number must be 9-10 digits",
	"id_number":          "ID number must be 13 digits",
	"swift_code":         "Invalid swift code. It should have 4 to 5 capital letters followed by 1 to 2 numbers.",
	"currency_code":      "Currency must be a 3-letter uppercase code",
	"person_name":        "Must contain only letters",
	"oneof":              "Status must be one of approved, disapproved or pending",
	"max":                "Value is too long",
}

var displayNames = map[string]string{
	"firstName":               "First name",
	"lastName":                "Last name",
	"email":                   "Email",
	"username":                "Username",
	"password":                "Password",
	"confirmPassword":         "Confirm password",
	"accountNumber":           "Account number",
	"idNumber":                "ID number",
	"usernameOrAccountNumber": "Username or account number",
	"identifier":              "Username or account number",
	"newPassword":             "New password",
	"recipientName":           "Recipient name",
	"recipientBank":           "Recipient bank",
	"recipientAccountNo":      "Recipient account number",
	"amount":                  "Amount",
	"swiftCode":               "Swift code",
	"currency":                "Currency",
	"date":                    "Date",
	"status":                  "Status",
}

func displayName(field string) string {
	if name, ok := displayNames[field]; ok {
		return name
	}
	return field
}
