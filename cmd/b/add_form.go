package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bugtrack/b/internal/config"
	"github.com/bugtrack/b/internal/templates"
)

// addForm holds the answers of the interactive add form.
type addForm struct {
	Title    string
	Template string
	Self     bool
}

// templateOptions lists the templates available to the store, the default first.
func templateOptions(p *templates.Provider, def string) ([]huh.Option[string], error) {
	infos, err := p.List(false, false)
	if err != nil {
		return nil, err
	}
	opts := make([]huh.Option[string], 0, len(infos))
	for _, info := range infos {
		label := info.Name
		if info.Custom {
			label += " (custom)"
		}
		opt := huh.NewOption(label, info.Name)
		if info.Name == def {
			opts = append([]huh.Option[string]{opt}, opts...)
			continue
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func validateTitle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("title is required")
	}
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("title must be a single line")
	}
	return nil
}

// runAddForm asks for the fields of a new bug, prefilled from the flags.
func runAddForm(title, tmpl string, self bool) (*addForm, error) {
	def := tmpl
	if def == "" {
		def = config.GetString("template")
	}
	options, err := templateOptions(templates.NewProvider(trk.Dir()), def)
	if err != nil {
		return nil, err
	}

	answers := &addForm{Title: title, Template: def, Self: self}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("One line summary of the bug").
				Placeholder("e.g., Crash when saving an empty file").
				Value(&answers.Title).
				Validate(validateTitle),

			huh.NewSelect[string]().
				Title("Template").
				Description("Sections to seed the details with").
				Options(options...).
				Value(&answers.Template),

			huh.NewConfirm().
				Title("Assign to me?").
				Value(&answers.Self),
		),
	)
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil, fmt.Errorf("add cancelled")
		}
		return nil, fmt.Errorf("form error: %w", err)
	}
	return answers, nil
}
