package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/navigation"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

const (
	actionLogin    = "Login"
	actionRegister = "Register"
	actionPrevious = "Previous"
	actionNext     = "Next"
	actionSubmit   = "Submit"
	actionQuit     = "Quit"

	noSelection = "(none)"
)

// Wizard runs a full session from a terminal: login or registration, then
// every section until the form is submitted.
type Wizard struct {
	ctrl     *session.Controller
	driver   PromptDriver
	renderer *Renderer
	theme    Theme
	logger   *zap.SugaredLogger
}

// NewWizard binds a wizard to ctrl.
func NewWizard(ctrl *session.Controller, options ...Option) *Wizard {
	s := newSettings(options)
	return &Wizard{
		ctrl:     ctrl,
		driver:   s.driver,
		renderer: &Renderer{theme: s.theme},
		theme:    s.theme,
		logger:   s.logger,
	}
}

// Run blocks until the form is submitted, the user quits (ErrAborted) or a
// prompt fails.
func (w *Wizard) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if w.driver == nil {
		return ErrNoDriver
	}
	if w.ctrl == nil {
		return errors.New("tui: session controller is nil")
	}

	if !w.ctrl.Snapshot().LoggedIn {
		if err := w.authenticate(ctx); err != nil {
			return err
		}
	}

	for {
		done, err := w.section(ctx)
		if err != nil || done {
			return err
		}
	}
}

// authenticate loops on the login screen until a schema is loaded.
func (w *Wizard) authenticate(ctx context.Context) error {
	actions := []string{actionLogin, actionRegister, actionQuit}
	for {
		idx, err := w.driver.Select(ctx, SelectConfig{Message: "Welcome", Options: actions})
		if err != nil {
			return err
		}
		action := pick(actions, idx)
		if action == actionQuit {
			return ErrAborted
		}

		roll, err := w.driver.Input(ctx, InputConfig{Message: "Roll Number"})
		if err != nil {
			return err
		}

		switch action {
		case actionRegister:
			name, err := w.driver.Input(ctx, InputConfig{Message: "Name"})
			if err != nil {
				return err
			}
			err = w.ctrl.Register(ctx, roll, name)
			if err == nil {
				return nil
			}
			state := w.ctrl.Snapshot()
			msg := firstNonEmpty(state.RegistrationError, state.LoginError)
			if msg != "" {
				if err := w.error(ctx, msg); err != nil {
					return err
				}
			}
		default:
			err = w.ctrl.Login(ctx, roll)
			if err == nil {
				return nil
			}
			if msg := w.ctrl.Snapshot().LoginError; msg != "" {
				if err := w.error(ctx, msg); err != nil {
					return err
				}
			}
		}
		w.logger.Debugw("authentication attempt failed", "action", action, "error", err)
	}
}

// section renders, edits and acts on the current section. It reports true
// once the form has been submitted.
func (w *Wizard) section(ctx context.Context) (bool, error) {
	view, err := render.BuildView(w.ctrl.Snapshot())
	if err != nil {
		return false, err
	}
	summary, err := w.renderer.Render(ctx, view)
	if err != nil {
		return false, err
	}
	if err := w.driver.Info(ctx, strings.TrimRight(string(summary), "\n")); err != nil {
		return false, err
	}

	for _, field := range view.Fields {
		if err := w.promptField(ctx, field); err != nil {
			return false, err
		}
	}

	actions := make([]string, 0, 3)
	if view.CanGoBack {
		actions = append(actions, actionPrevious)
	}
	if view.IsLast {
		actions = append(actions, actionSubmit)
	} else {
		actions = append(actions, actionNext)
	}
	actions = append(actions, actionQuit)

	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Continue", Options: actions, DefaultIndex: len(actions) - 2})
	if err != nil {
		return false, err
	}

	switch pick(actions, idx) {
	case actionPrevious:
		if err := w.ctrl.Previous(); err != nil && !errors.Is(err, navigation.ErrFirstSection) {
			return false, err
		}
	case actionNext:
		if err := w.ctrl.Next(); err != nil {
			return false, w.reportValidation(ctx, err)
		}
	case actionSubmit:
		if err := w.ctrl.Submit(ctx); err != nil {
			return false, w.reportValidation(ctx, err)
		}
		return true, w.info(ctx, "Form submitted!")
	default:
		return false, ErrAborted
	}
	return false, w.ctrl.Wait(ctx)
}

func (w *Wizard) reportValidation(ctx context.Context, err error) error {
	var invalid *session.ValidationError
	if !errors.As(err, &invalid) {
		return err
	}
	return w.error(ctx, fmt.Sprintf("Please fix %d field(s) before continuing.", len(invalid.Errors)))
}

func (w *Wizard) promptField(ctx context.Context, field render.FieldView) error {
	if field.Error != "" {
		if err := w.error(ctx, fmt.Sprintf("%s: %s", field.Label, field.Error)); err != nil {
			return err
		}
	}
	message := w.theme.PromptPrefix + fieldLabel(field)

	switch c := field.Control.(type) {
	case schema.TextInput:
		value, err := w.driver.Input(ctx, InputConfig{
			Message: message,
			Default: field.Text(),
			Help:    inputHelp(c.InputType, c.Placeholder, c.MinLength, c.MaxLength),
		})
		if err != nil {
			return err
		}
		return w.update(field, form.Scalar(value))
	case schema.TextArea:
		value, err := w.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: field.Text(),
			Help:    inputHelp("", c.Placeholder, c.MinLength, c.MaxLength),
		})
		if err != nil {
			return err
		}
		return w.update(field, form.Scalar(value))
	case schema.Select:
		return w.promptSingle(ctx, field, message, c.Placeholder, c.Options)
	case schema.RadioGroup:
		return w.promptSingle(ctx, field, message, noSelection, c.Options)
	case schema.CheckboxGroup:
		labels, defaults := optionChoices(field, c.Options)
		picked, err := w.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults})
		if err != nil {
			return err
		}
		selection := form.Multi{}
		for _, i := range picked {
			if i >= 0 && i < len(c.Options) {
				selection = append(selection, c.Options[i].Value)
			}
		}
		return w.update(field, selection)
	case schema.Unsupported:
		return w.info(ctx, fmt.Sprintf("%s: %s", field.Label, unsupportedMessage(c.Type)))
	default:
		return w.info(ctx, fmt.Sprintf("%s: %s", field.Label, unsupportedMessage(field.Type)))
	}
}

// promptSingle offers an empty entry followed by the options.
func (w *Wizard) promptSingle(ctx context.Context, field render.FieldView, message, empty string, options []schema.Option) error {
	labels, selected := optionChoices(field, options)
	choices := append([]string{empty}, labels...)
	current := 0
	if len(selected) > 0 {
		current = selected[0] + 1
	}

	idx, err := w.driver.Select(ctx, SelectConfig{Message: message, Options: choices, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx <= 0 || idx > len(options) {
		return w.update(field, form.Scalar(""))
	}
	return w.update(field, form.Scalar(options[idx-1].Value))
}

func (w *Wizard) update(field render.FieldView, value form.Value) error {
	if sameValue(field.Value, value) {
		return nil
	}
	return w.ctrl.SetFieldValue(field.ID, value)
}

func (w *Wizard) info(ctx context.Context, msg string) error {
	return w.driver.Info(ctx, w.theme.InfoPrefix+msg)
}

func (w *Wizard) error(ctx context.Context, msg string) error {
	return w.driver.Info(ctx, w.theme.ErrorPrefix+msg)
}

func optionChoices(field render.FieldView, options []schema.Option) ([]string, []int) {
	labels := make([]string, len(options))
	var selected []int
	for i, opt := range options {
		labels[i] = opt.Label
		if field.Selected(opt.Value) {
			selected = append(selected, i)
		}
	}
	return labels, selected
}

func inputHelp(inputType schema.FieldType, placeholder string, minLength, maxLength int) string {
	var parts []string
	if placeholder != "" {
		parts = append(parts, "e.g. "+placeholder)
	}
	if inputType == schema.FieldTypeDate {
		parts = append(parts, "format YYYY-MM-DD")
	}
	if minLength > 0 {
		parts = append(parts, fmt.Sprintf("min %d characters", minLength))
	}
	if maxLength > 0 {
		parts = append(parts, fmt.Sprintf("max %d characters", maxLength))
	}
	return strings.Join(parts, ", ")
}

// sameValue avoids clearing a field's error when the user kept the value.
func sameValue(current, next form.Value) bool {
	if current == nil {
		return next == nil || next.IsZero()
	}
	if _, ok := current.(form.Multi); ok {
		if _, ok := next.(form.Multi); !ok {
			return false
		}
		a, b := current.Strings(), next.Strings()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	if _, ok := next.(form.Scalar); !ok {
		return false
	}
	return current.String() == next.String()
}

func pick(options []string, idx int) string {
	if idx < 0 || idx >= len(options) {
		return ""
	}
	return options[idx]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
