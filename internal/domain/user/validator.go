package user

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinNameLen     = 2
	MaxNameLen     = 64
	MinPasswordLen = 6
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(name, email, password string) error
	ValidateEmail(email string) error
	ValidatePassword(password string) error
}

type CredentialsValidator struct {
	requireDigit bool
	requireLower bool
}

// NewCredentialsValidator создает новый валидатор
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{
		requireDigit: true,
		requireLower: true,
	}
}

// ValidateRegister валидирует данные для регистрации
func (v *CredentialsValidator) ValidateRegister(name, email, password string) error {
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		return fmt.Errorf("name must be between %d and %d characters", MinNameLen, MaxNameLen)
	}

	if err := v.ValidateEmail(email); err != nil {
		return fmt.Errorf("email validation failed: %w", err)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}

	return nil
}

// ValidateEmail валидирует email
func (v *CredentialsValidator) ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("email must contain a local part and a domain")
	}

	if strings.ContainsAny(email, " \t") {
		return fmt.Errorf("email must not contain whitespace")
	}

	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("email domain must contain a dot")
	}

	return nil
}

// ValidatePassword валидирует пароль
func (v *CredentialsValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	hasLower := false
	hasDigit := false

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}

		if hasLower && hasDigit {
			break
		}
	}

	if v.requireLower && !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}

	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// NormalizeEmail приводит email к каноническому виду для сравнения и хранения.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
