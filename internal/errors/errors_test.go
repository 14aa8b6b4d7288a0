package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "V001",
			wantMsg: "Configuration file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "scenario error",
			code:    "V011",
			wantMsg: "Scenario could not be parsed",
			wantCat: CategoryScenario,
		},
		{
			name:    "submit error",
			code:    "V020",
			wantMsg: "Submission failed",
			wantCat: CategorySubmit,
		},
		{
			name:    "unknown error code",
			code:    "V999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewCopiesTemplateSuggestion(t *testing.T) {
	if got := New("V032").Suggestion; got == "" {
		t.Error("V032 suggestion not copied from template")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"code", New("V020"), "V020: Submission failed"},
		{"no code", &Error{Message: "test error"}, "test error"},
		{"wrapped", New("V020").Wrap(fmt.Errorf("boom")), "V020: Submission failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signup.yaml")
	content := "name: signup\nfields:\n  - name: email\n     label: Email\n  - name: plan\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWithLocation(t *testing.T) {
	path := writeScenario(t)
	err := New("V011").WithLocation(path, 4, 6)

	if err.Location == nil || err.Location.Line != 4 || err.Location.Column != 6 {
		t.Fatalf("Location = %+v", err.Location)
	}
	// Lines 2 through 5.
	if len(err.Context) != 4 || err.Context[2] != "     label: Email" {
		t.Errorf("Context = %q", err.Context)
	}
}

func TestWithLocationFromYAML(t *testing.T) {
	path := writeScenario(t)

	err := New("V011").WithLocationFromYAML(path, stderrors.New("yaml: line 4: mapping values are not allowed in this context"))
	if err.Location == nil || err.Location.Line != 4 {
		t.Fatalf("Location = %+v, want line 4", err.Location)
	}

	plain := New("V011").WithLocationFromYAML(path, stderrors.New("no position"))
	if plain.Location != nil {
		t.Errorf("Location = %+v, want nil", plain.Location)
	}
	if New("V011").WithLocationFromYAML(path, nil).Location != nil {
		t.Error("nil error produced a location")
	}
}

func TestWrapAndFromError(t *testing.T) {
	if FromError(nil, "V020") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("V021")
	if FromError(fmt.Errorf("context: %w", e), "V020") != e {
		t.Error("FromError should return an *Error found in the chain")
	}

	cause := stderrors.New("disk full")
	result := FromError(cause, "V020")
	if result.Code != "V020" || !stderrors.Is(result, cause) {
		t.Errorf("FromError = %v, want V020 wrapping the cause", result)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "a.yaml", Line: 10, Column: 5}, "a.yaml:10:5"},
		{"without column", &Location{File: "a.yaml", Line: 10}, "a.yaml:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	path := writeScenario(t)
	err := New("V011").
		Wrap(stderrors.New("yaml: line 4: mapping values are not allowed")).
		WithLocation(path, 4, 0).
		WithSuggestion("Check the indentation of the fields list").
		WithExample("fields:\n  - name: email")

	out := err.Format()
	for _, want := range []string{
		"ERROR V011: Scenario could not be parsed",
		path + ":4",
		"  →  4 │      label: Email",
		"     3 │   - name: email",
		"yaml: line 4: mapping values are not allowed",
		"Hint: Check the indentation of the fields list",
		"Example:\n    fields:\n      - name: email",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() contains ANSI codes with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("V012").Wrap(stderrors.New("no fields"))
	err.Location = &Location{File: "a.yaml", Line: 3}
	if got, want := err.FormatCompact(), "a.yaml:3: V012: Invalid scenario definition: no fields"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("V020").Wrap(stderrors.New(`server said "no"`))
	err.Location = &Location{File: "a.yaml", Line: 2}

	var got map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &got); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if got["code"] != "V020" || got["category"] != "submit" || got["cause"] != `server said "no"` {
		t.Errorf("FormatJSON() = %v", got)
	}
	loc, _ := got["location"].(map[string]any)
	if loc["file"] != "a.yaml" || loc["line"] != float64(2) {
		t.Errorf("location = %v", got["location"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q longer than 10", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %q", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, fmt.Errorf("run: %w", New("V021")))
	if !strings.Contains(buf.String(), "ERROR V021: Form has validation errors") {
		t.Errorf("Print(*Error) = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, stderrors.New("plain"))
	if got := buf.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("Print(plain) = %q", got)
	}
}

func TestCodesAreSortedAndRegistered(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i, code := range codes {
		if i > 0 && codes[i-1] >= code {
			t.Errorf("codes not sorted at %d: %v", i, codes)
		}
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}
}
