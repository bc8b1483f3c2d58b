package service

import (
	"fmt"
	"net/mail"

	"github.com/asafto/kdog-server/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func validateName(name string) error {
	if l := len(name); l < 2 || l > 255 {
		return invalid("name must be 2-255 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if l := len(email); l < 6 || l > 255 {
		return invalid("email must be 6-255 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("invalid email address")
	}
	return nil
}

func validatePassword(pw string) error {
	if l := len(pw); l < 6 || l > 1024 {
		return invalid("password must be 6-1024 characters")
	}
	return nil
}

func validateRole(role string) error {
	if role != domain.RoleRegular && role != domain.RoleAdmin {
		return invalid("role must be %q or %q", domain.RoleRegular, domain.RoleAdmin)
	}
	return nil
}

func validatePostText(text string) error {
	if l := len(text); l < 2 || l > 1024 {
		return invalid("text must be 2-1024 characters")
	}
	return nil
}

func validateCommentText(text string) error {
	if l := len(text); l < 2 || l > 512 {
		return invalid("text must be 2-512 characters")
	}
	return nil
}
