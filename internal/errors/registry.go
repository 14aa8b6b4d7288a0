package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (V001-V009)
	"V001": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "The configuration file passed with --config does not exist.",
		Suggestion: "Drop --config to use the defaults, or run vform in the directory that holds vform.json",
	},
	"V002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "vform.json could not be decoded as JSON.",
	},
	"V003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside the allowed set.",
	},

	// Scenarios (V010-V019)
	"V010": {
		Category:   CategoryScenario,
		Message:    "Scenario file not found",
		Suggestion: "Pass the path to a YAML scenario, e.g. vform run examples/signup.yaml",
	},
	"V011": {
		Category: CategoryScenario,
		Message:  "Scenario could not be parsed",
		Detail:   "The scenario is not valid YAML or contains keys that are not part of the scenario format.",
	},
	"V012": {
		Category: CategoryScenario,
		Message:  "Invalid scenario definition",
		Detail:   "The scenario parsed, but its fields, rules or steps are inconsistent.",
	},

	// Forms (V020-V029)
	"V020": {
		Category: CategorySubmit,
		Message:  "Submission failed",
		Detail:   "The submit handler returned an error. The form is marked as failed and can be submitted again.",
	},
	"V021": {
		Category: CategoryValidation,
		Message:  "Form has validation errors",
		Detail:   "The form was not submitted because at least one field is invalid.",
	},

	// Command line (V030-V039)
	"V030": {
		Category: CategoryCLI,
		Message:  "Prompt aborted",
	},
	"V031": {
		Category:   CategoryCLI,
		Message:    "Playground server failed",
		Suggestion: "Check that the address is free or pass another one with --addr",
	},
	"V032": {
		Category:   CategoryCLI,
		Message:    "Unknown output format",
		Suggestion: "Use --output text or --output json",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
