// Package validation проверяет входные данные создания пользователя
// до обращения к хранилищу.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения полей пользователя.
const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 8

	// PasswordSymbols - допустимые специальные символы пароля.
	PasswordSymbols = "@$!%*?&"
)

// Сообщения о нарушениях правил валидации.
const (
	MsgNameRequired     = "Name is required"
	MsgNameTooShort     = "Name must be at least 2 characters"
	MsgNameTooLong      = "Name must be at most 50 characters"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordNoLower  = "Password must contain at least one lowercase letter"
	MsgPasswordNoUpper  = "Password must contain at least one uppercase letter"
	MsgPasswordNoDigit  = "Password must contain at least one number"
	MsgPasswordNoSymbol = "Password must contain at least one special character (@$!%*?&)"
	MsgPasswordBadChars = "Password may only contain letters, numbers and @$!%*?&"
)

// Имена полей в нарушениях.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Violation описывает одно нарушение правила валидации поля.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError агрегирует нарушения всех проверенных правил.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// CreationPayload содержит данные запроса на создание пользователя.
type CreationPayload struct {
	Name     string
	Email    string
	Password string
}

// ValidateCreation проверяет payload по всем правилам и возвращает
// *ValidationError с упорядоченным списком нарушений. Проверка не
// останавливается на первом нарушении. Для корректного payload
// возвращается nil.
func ValidateCreation(payload CreationPayload) *ValidationError {
	violations := make([]Violation, 0)

	violations = append(violations, validateName(payload.Name)...)
	violations = append(violations, validateEmail(payload.Email)...)
	violations = append(violations, validatePassword(payload.Password)...)

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func validateName(name string) []Violation {
	if name == "" {
		return []Violation{{Field: FieldName, Message: MsgNameRequired}}
	}

	var violations []Violation
	length := utf8.RuneCountInString(name)
	if length < MinNameLength {
		violations = append(violations, Violation{Field: FieldName, Message: MsgNameTooShort})
	}
	if length > MaxNameLength {
		violations = append(violations, Violation{Field: FieldName, Message: MsgNameTooLong})
	}
	return violations
}

func validateEmail(email string) []Violation {
	if email == "" {
		return []Violation{{Field: FieldEmail, Message: MsgEmailRequired}}
	}
	if !emailRegexp.MatchString(email) {
		return []Violation{{Field: FieldEmail, Message: MsgEmailInvalid}}
	}
	return nil
}

func validatePassword(password string) []Violation {
	if password == "" {
		return []Violation{{Field: FieldPassword, Message: MsgPasswordRequired}}
	}

	var violations []Violation
	if utf8.RuneCountInString(password) < MinPasswordLength {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordTooShort})
	}

	var hasLower, hasUpper, hasDigit, hasSymbol, hasForbidden bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		default:
			hasForbidden = true
		}
	}

	if !hasLower {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordNoLower})
	}
	if !hasUpper {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordNoUpper})
	}
	if !hasDigit {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordNoDigit})
	}
	if !hasSymbol {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordNoSymbol})
	}
	if hasForbidden {
		violations = append(violations, Violation{Field: FieldPassword, Message: MsgPasswordBadChars})
	}
	return violations
}
