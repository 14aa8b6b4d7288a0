// Package tui drives a form from the terminal.
//
// A Session mounts one field binding per Prompt on a form controller and
// asks for each value with survey. Answers go through the binding exactly as
// DOM input events would, so the form's ValidateFunc decides whether a value
// is accepted; invalid answers are reported and asked again. Once every
// field is valid the session confirms and submits the form.
//
//	s, err := tui.New(ctrl, []tui.Prompt{
//	    {Name: "email", Label: "Email"},
//	    {Name: "plan", Kind: tui.Select, Options: []string{"free", "pro"}},
//	})
//	res, err := s.Run(ctx)
//
// Tests replace the terminal with WithPromptDriver.
package tui
