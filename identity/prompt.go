package identity

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// PromptEmail asks for an email address on the terminal.
func PromptEmail(title string) (string, error) {
	var email string

	input := huh.NewInput().
		Title(title).
		Placeholder("you@example.com").
		Validate(func(s string) error {
			_, err := NormalizeEmail(s)
			return err
		}).
		Value(&email)

	err := huh.NewForm(huh.NewGroup(input)).Run()
	if err != nil {
		return "", fmt.Errorf("email prompt failed: %w", err)
	}

	return email, nil
}
