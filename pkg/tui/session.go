package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/vform/pkg/field"
	"github.com/vango-dev/vform/pkg/form"
)

// Kind selects the prompt used for a field.
type Kind int

const (
	Text Kind = iota
	Password
	TextArea
	Select
	Confirm
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Password:
		return "password"
	case TextArea:
		return "textarea"
	case Select:
		return "select"
	case Confirm:
		return "confirm"
	default:
		return "text"
	}
}

// ParseKind maps a kind name to a Kind. The empty string is Text.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "password":
		return Password, nil
	case "textarea":
		return TextArea, nil
	case "select":
		return Select, nil
	case "confirm", "checkbox":
		return Confirm, nil
	default:
		return Text, fmt.Errorf("tui: unknown prompt kind %q", s)
	}
}

// Prompt describes how one form field is asked for.
type Prompt struct {
	Name    string
	Label   string
	Help    string
	Kind    Kind
	Options []string
}

func (p Prompt) message() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Result is the outcome of a completed session.
type Result struct {
	Values form.Values
	State  form.State
}

// Session asks for every field of a form in the terminal, routing each answer
// through a field binding so the form's own validation decides when a value
// is accepted, then submits the form.
type Session struct {
	ctrl        *form.Controller
	prompts     []Prompt
	driver      PromptDriver
	logger      *slog.Logger
	maxAttempts int
	confirm     bool
	theme       Theme
}

// New creates a session for ctrl. Defaults: survey driver on stdout, three
// attempts per field, confirmation before submit.
func New(ctrl *form.Controller, prompts []Prompt, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, form.ErrNoForm
	}
	if len(prompts) == 0 {
		return nil, ErrNoPrompts
	}
	for _, p := range prompts {
		if p.Name == "" {
			return nil, form.ErrMissingName
		}
		if p.Kind == Select && len(p.Options) == 0 {
			return nil, fmt.Errorf("tui: select prompt %q has no options", p.Name)
		}
	}

	s := &Session{
		ctrl:        ctrl,
		prompts:     prompts,
		logger:      slog.Default(),
		maxAttempts: 3,
		confirm:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	s.logger = s.logger.With("component", "tui", "form", ctrl.Name())
	return s, nil
}

// Run mounts a binding per prompt, asks each field until it is valid,
// re-asks fields invalidated by later answers, and submits. Bindings are
// unmounted before Run returns.
func (s *Session) Run(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("tui: context is required")
	}

	bindings := make([]*field.Binding, 0, len(s.prompts))
	defer func() {
		for _, b := range bindings {
			b.Unmount()
		}
	}()
	for _, p := range s.prompts {
		b, err := field.Mount(s.ctrl, p.Name)
		if err != nil {
			return Result{}, fmt.Errorf("tui: mount %q: %w", p.Name, err)
		}
		bindings = append(bindings, b)
	}

	for i, p := range s.prompts {
		if err := s.ask(ctx, p, bindings[i]); err != nil {
			return Result{}, err
		}
	}
	if err := s.recheck(ctx, bindings); err != nil {
		return Result{}, err
	}

	if s.confirm {
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, ErrDeclined
		}
	}
	return s.submit(ctx)
}

func (s *Session) ask(ctx context.Context, p Prompt, b *field.Binding) error {
	for attempt := 1; ; attempt++ {
		v, err := s.prompt(ctx, p, b.State().Value)
		if err != nil {
			return err
		}
		if err := b.HandleChange(v); err != nil {
			return fmt.Errorf("tui: %s: %w", p.Name, err)
		}
		b.HandleBlur()

		f := b.State()
		s.logger.Debug("field answered", "field", p.Name, "attempt", attempt, "valid", !f.Invalid())
		if !f.Invalid() {
			return nil
		}
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+p.message()+": "+f.Error); err != nil {
			return err
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, p.Name)
		}
	}
}

// recheck re-asks fields whose errors appeared after they were answered.
func (s *Session) recheck(ctx context.Context, bindings []*field.Binding) error {
	for round := 0; ; round++ {
		state := s.ctrl.Snapshot()
		var stale []int
		for i, p := range s.prompts {
			if state.Errors[p.Name] != "" {
				stale = append(stale, i)
			}
		}
		if len(stale) == 0 {
			return nil
		}
		if s.maxAttempts > 0 && round >= s.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, s.prompts[stale[0]].Name)
		}
		for _, i := range stale {
			p := s.prompts[i]
			msg := s.theme.ErrorPrefix + p.message() + ": " + state.Errors[p.Name]
			if err := s.driver.Info(ctx, msg); err != nil {
				return err
			}
			if err := s.ask(ctx, p, bindings[i]); err != nil {
				return err
			}
		}
	}
}

func (s *Session) prompt(ctx context.Context, p Prompt, current any) (any, error) {
	switch p.Kind {
	case Confirm:
		def, _ := current.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{Message: p.message(), Help: p.Help, Default: def})

	case Select:
		def := indexOf(p.Options, valueString(current))
		if def < 0 {
			def = 0
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      p.message(),
			Help:         p.Help,
			Options:      p.Options,
			DefaultIndex: def,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(p.Options) {
			return nil, fmt.Errorf("tui: %s: selection %d out of range", p.Name, idx)
		}
		return p.Options[idx], nil

	case TextArea:
		return s.driver.TextArea(ctx, TextAreaConfig{Message: p.message(), Help: p.Help, Default: valueString(current)})

	case Password:
		return s.driver.Password(ctx, InputConfig{Message: p.message(), Help: p.Help})

	default:
		return s.driver.Input(ctx, InputConfig{Message: p.message(), Help: p.Help, Default: valueString(current)})
	}
}

func (s *Session) submit(ctx context.Context) (Result, error) {
	sub := s.ctrl.Submit(ctx, nil)
	if !sub.Invoked() {
		if err := sub.Wait(); err != nil {
			return Result{}, err
		}
		return Result{}, ErrInvalid
	}

	select {
	case <-sub.Done():
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	err := sub.Wait()
	state := s.ctrl.Snapshot()
	res := Result{Values: state.Values.Clone(), State: state}
	if err != nil {
		s.logger.Info("submit failed", "error", err)
		if infoErr := s.driver.Info(ctx, s.theme.ErrorPrefix+"Submit failed: "+err.Error()); infoErr != nil {
			return res, infoErr
		}
		return res, fmt.Errorf("tui: submit: %w", err)
	}
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+"Submitted."); err != nil {
		return res, err
	}
	return res, nil
}

func valueString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
