// Package interactive provides terminal user interface components
package interactive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
)

// MenuOption represents a menu item with its associated action
type MenuOption struct {
	Name        string
	Description string
	Action      func() error
}

var (
	// ErrExit is returned when the user chooses to exit
	ErrExit = errors.New("exit")
	// ErrInvalidSelection is returned when an invalid menu option is selected
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoPagesChosen is returned when the page picker is left empty
	ErrNoPagesChosen = errors.New("no pages chosen")
)

// ShowMainMenu displays the main menu and handles user selection
func ShowMainMenu(options []MenuOption) error {
	choices := make([]string, 0, len(options)+1)
	optionMap := make(map[string]MenuOption)

	for _, opt := range options {
		choice := fmt.Sprintf("%s - %s", opt.Name, opt.Description)
		choices = append(choices, choice)
		optionMap[choice] = opt
	}

	choices = append(choices, "Exit")

	var selected string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: choices,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return ErrExit
	}

	if selected == "Exit" {
		return ErrExit
	}

	if option, ok := optionMap[selected]; ok {
		return option.Action()
	}

	return ErrInvalidSelection
}

// PauseForEnter waits for the user to press Enter
func PauseForEnter() {
	fmt.Println("\nPress Enter to continue...")
	_, _ = fmt.Scanln()
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}

// AskURL prompts for an absolute http(s) page URL.
func AskURL() (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: "What URL would you like to test?",
	}

	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required), survey.WithValidator(urlValidator)); err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// AskLabel prompts for the label used in report names.
func AskLabel(defaultLabel string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: "What would you like to call this page?",
		Default: defaultLabel,
	}

	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// AskSampleCount prompts for how many times to sample each page.
func AskSampleCount() (int, error) {
	var answer string
	prompt := &survey.Input{
		Message: fmt.Sprintf("How many times would you like to run the test? (%d-%d)",
			sampling.MinSampleCount, sampling.MaxSampleCount),
		Default: "3",
	}

	if err := survey.AskOne(prompt, &answer, survey.WithValidator(sampleCountValidator)); err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(answer))
}

// SelectPages lets the user pick pages from the configured set. Every page
// is preselected.
func SelectPages(pages []sampling.PageTarget) ([]string, error) {
	options := make([]string, 0, len(pages))
	for _, page := range pages {
		options = append(options, page.Label)
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Which pages would you like to test?",
		Options: options,
		Default: options,
		Description: func(value string, index int) string {
			return pages[index].URL
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return nil, ErrNoPagesChosen
	}

	return selected, nil
}

func urlValidator(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return ErrInvalidSelection
	}

	return config.ValidateURL(s)
}

func sampleCountValidator(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return ErrInvalidSelection
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}

	return sampling.ValidateSampleCount(n)
}
