// Package validation accumulates field-level input errors into a
// *domain.ValidationError.
package validation

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

type Validator struct {
	fields []domain.FieldError
}

func New() *Validator {
	return &Validator{}
}

// Check records msg for field when ok is false.
func (v *Validator) Check(ok bool, field, msg string) {
	if !ok {
		v.fields = append(v.fields, domain.FieldError{Field: field, Message: msg})
	}
}

func (v *Validator) MinLen(field, value string, n int, msg string) {
	v.Check(utf8.RuneCountInString(value) >= n, field, msg)
}

func (v *Validator) MaxLen(field, value string, n int, msg string) {
	v.Check(utf8.RuneCountInString(value) <= n, field, msg)
}

func (v *Validator) Email(field, value, msg string) {
	v.Check(IsEmail(value), field, msg)
}

func (v *Validator) Phone(field, value, msg string) {
	v.Check(phonePattern.MatchString(value), field, msg)
}

func (v *Validator) OneOf(field, value string, allowed []string, msg string) {
	v.Check(slices.Contains(allowed, value), field, msg)
}

// UUID parses value, recording msg on failure.
func (v *Validator) UUID(field, value, msg string) uuid.UUID {
	id, err := uuid.Parse(value)
	v.Check(err == nil, field, msg)
	return id
}

func (v *Validator) Valid() bool {
	return len(v.fields) == 0
}

// Err returns nil when nothing failed.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &domain.ValidationError{Fields: slices.Clone(v.fields)}
}

// IsEmail accepts a bare address, without display name or angle brackets.
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return strings.Contains(s[at+1:], ".")
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
