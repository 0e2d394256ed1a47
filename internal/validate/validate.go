// Package validate checks user input before it reaches storage.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
)

const (
	MinPasswordLength = 6
	MinRating         = 0
	MaxRating         = 10
)

var emailRe = regexp.MustCompile(`^[^\p{Z}\s@]+@[^\p{Z}\s@]+\.[^\p{Z}\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword counts characters, not bytes.
func IsValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func IsValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func IsValidRating(rating float64) bool {
	return rating >= MinRating && rating <= MaxRating
}

// SignIn rejects empty credentials and malformed emails.
func SignIn(email, password string) error {
	if email == "" {
		return &common.ValidationError{Field: "email", Reason: "required"}
	}
	if password == "" {
		return &common.ValidationError{Field: "password", Reason: "required"}
	}
	if !IsValidEmail(email) {
		return &common.ValidationError{Field: "email", Reason: "invalid format"}
	}
	return nil
}

// SignUp rejects a blank name, a malformed email and short passwords.
func SignUp(name, email, password string) error {
	if !IsValidName(name) {
		return &common.ValidationError{Field: "name", Reason: "required"}
	}
	if !IsValidEmail(email) {
		return &common.ValidationError{Field: "email", Reason: "invalid format"}
	}
	if !IsValidPassword(password) {
		return &common.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}

// Rating rejects ratings outside [0, 10].
func Rating(rating float64) error {
	if !IsValidRating(rating) {
		return &common.ValidationError{Field: "rating", Reason: "must be between 0 and 10"}
	}
	return nil
}
