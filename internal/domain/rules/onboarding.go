package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// OnboardingField describes one step of the linear onboarding wizard.
// The client walks the fields in order; the profile endpoint validates
// the full answer set against the same descriptors.
type OnboardingField struct {
	Key      string
	Prompt   string
	Validate func(value string) error
}

var lookingForOptions = map[string]struct{}{
	"friendship":   {},
	"relationship": {},
	"study-buddy":  {},
	"not-sure":     {},
}

func required(key string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", key)
		}
		return nil
	}
}

func yearValidator(value string) error {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("year must be a number")
	}
	if year < 1 || year > 8 {
		return fmt.Errorf("year must be between 1 and 8")
	}
	return nil
}

func lookingForValidator(value string) error {
	if _, ok := lookingForOptions[strings.ToLower(strings.TrimSpace(value))]; !ok {
		return fmt.Errorf("looking_for must be one of friendship, relationship, study-buddy, not-sure")
	}
	return nil
}

// OnboardingFields returns the wizard steps in presentation order.
func OnboardingFields() []OnboardingField {
	return []OnboardingField{
		{Key: "display_name", Prompt: "What's your name?", Validate: required("display_name")},
		{Key: "university", Prompt: "What university do you attend?", Validate: required("university")},
		{Key: "campus", Prompt: "Which campus are you located at?", Validate: required("campus")},
		{Key: "course", Prompt: "What course are you studying?", Validate: required("course")},
		{Key: "year", Prompt: "What year are you in?", Validate: yearValidator},
		{Key: "bio", Prompt: "Tell us a bit about yourself", Validate: required("bio")},
		{Key: "interests", Prompt: "What are your interests? (comma-separated)", Validate: required("interests")},
		{Key: "looking_for", Prompt: "What are you looking for?", Validate: lookingForValidator},
	}
}

// ValidateOnboarding checks a complete answer set against the wizard
// descriptors and returns the key of the first failing field.
func ValidateOnboarding(answers map[string]string) (string, error) {
	for _, field := range OnboardingFields() {
		if err := field.Validate(answers[field.Key]); err != nil {
			return field.Key, err
		}
	}
	return "", nil
}

// SplitInterests turns the comma-separated wizard answer into the
// ordered interest list stored on the profile.
func SplitInterests(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
