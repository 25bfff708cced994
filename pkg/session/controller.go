package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/navigation"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Controller drives one wizard session against a client.Service.
type Controller struct {
	service   client.Service
	validator *validation.Validator
	sink      Sink
	logger    *zap.SugaredLogger
	metrics   *metrics.Collector

	navOptions []navigation.Option
	nav        *navigation.Navigator

	flights singleflight.Group
	logins  atomic.Uint64

	mu                sync.Mutex
	loggedIn          bool
	rollNumber        string
	form              schema.FormSchema
	values            form.Values
	errors            form.Errors
	registrationError string
	loginError        string
}

// New constructs a logged-out controller.
func New(service client.Service, options ...Option) *Controller {
	c := &Controller{
		service:   service,
		validator: validation.Default(),
		logger:    zap.NewNop().Sugar(),
		values:    form.Values{},
		errors:    form.Errors{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.sink == nil {
		c.sink = LogSink{Logger: c.logger}
	}

	navOptions := append([]navigation.Option{
		navigation.WithLogger(c.logger),
		navigation.WithObserver(c.observeTransition),
	}, c.navOptions...)
	c.nav = navigation.New(navOptions...)
	return c
}

func (c *Controller) observeTransition(t navigation.Transition) {
	c.metrics.Transitioned(t.Direction.String())
}

// Register creates the user and, on success, logs in with the same roll
// number. A failed registration leaves the login state untouched.
func (c *Controller) Register(ctx context.Context, rollNumber, name string) error {
	roll := strings.TrimSpace(rollNumber)
	if roll == "" {
		c.mu.Lock()
		c.registrationError = missingRegisterMessage
		c.mu.Unlock()
		return ErrMissingRollNumber
	}

	start := time.Now()
	err := c.service.Register(ctx, roll, name)
	c.metrics.ObserveRequest(string(client.OpRegister), outcome(err), time.Since(start))
	if err != nil {
		c.logger.Warnw("registration failed", "rollNumber", roll, "error", err)
		c.mu.Lock()
		c.registrationError = client.Message(err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.registrationError = ""
	c.mu.Unlock()
	return c.Login(ctx, roll)
}

// Login fetches the schema for rollNumber. Concurrent logins for the same
// roll number share one request; only the most recently issued login may
// change the session.
func (c *Controller) Login(ctx context.Context, rollNumber string) error {
	roll := strings.TrimSpace(rollNumber)
	if roll == "" {
		c.mu.Lock()
		c.loginError = missingLoginMessage
		c.mu.Unlock()
		return ErrMissingRollNumber
	}

	ticket := c.logins.Inc()
	result, shared, err := c.fetch(ctx, roll)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.logins.Load() != ticket {
		c.logger.Debugw("discarding superseded login", "rollNumber", roll, "shared", shared)
		return ErrSuperseded
	}

	if err != nil {
		c.logger.Warnw("login failed", "rollNumber", roll, "error", err)
		c.clearLocked()
		c.loginError = client.Message(err)
		return err
	}

	fetched := result.(schema.FormSchema).Clone()
	if err := c.nav.Reset(len(fetched.Sections)); err != nil {
		c.clearLocked()
		c.loginError = client.Message(&client.SchemaError{Err: err})
		return err
	}
	c.loggedIn = true
	c.rollNumber = roll
	c.form = fetched
	c.values = form.Values{}
	c.errors = form.Errors{}
	c.loginError = ""
	c.logger.Infow("logged in", "rollNumber", roll, "form", fetched.FormTitle, "sections", len(fetched.Sections))
	return nil
}

// fetch joins the in-flight fetch for roll. The shared fetch outlives any
// single caller; each caller stops waiting when its own context ends.
func (c *Controller) fetch(ctx context.Context, roll string) (any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &client.ConnectivityError{Op: client.OpFetchForm, Err: err}
	}
	fetchCtx := context.WithoutCancel(ctx)
	flight := c.flights.DoChan(roll, func() (any, error) {
		start := time.Now()
		fetched, err := c.service.FetchForm(fetchCtx, roll)
		c.metrics.ObserveRequest(string(client.OpFetchForm), outcome(err), time.Since(start))
		return fetched, err
	})

	select {
	case res := <-flight:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, &client.ConnectivityError{Op: client.OpFetchForm, Err: ctx.Err()}
	}
}

// Logout drops the schema and all entered data. Error messages are kept.
func (c *Controller) Logout() {
	c.logins.Inc()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// clearLocked drops the schema and everything keyed by it.
func (c *Controller) clearLocked() {
	c.loggedIn = false
	c.rollNumber = ""
	c.form = schema.FormSchema{}
	c.values = form.Values{}
	c.errors = form.Errors{}
	_ = c.nav.Reset(0)
}

// SetFieldValue overwrites the value of id and clears its error. The new
// value is not validated until the next Next or Submit.
func (c *Controller) SetFieldValue(id schema.FieldID, value form.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.fieldLocked(id); err != nil {
		return err
	}
	if value == nil {
		value = form.Scalar("")
	}
	c.values.Set(id, form.Clone(value))
	c.errors.Clear(id)
	return nil
}

// ToggleOption adds or removes option from a checkbox group's selection.
func (c *Controller) ToggleOption(id schema.FieldID, option string, checked bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, err := c.fieldLocked(id)
	if err != nil {
		return err
	}
	if !field.Type.MultiValued() {
		return fmt.Errorf("%w: %q", ErrNotMultiValued, id)
	}
	if !field.HasOption(option) {
		return fmt.Errorf("session: field %q has no option %q", id, option)
	}

	current, _ := c.values.Get(id).(form.Multi)
	c.values.Set(id, current.Toggle(option, checked))
	c.errors.Clear(id)
	return nil
}

func (c *Controller) fieldLocked(id schema.FieldID) (schema.Field, error) {
	if !c.loggedIn {
		return schema.Field{}, ErrNotLoggedIn
	}
	field, ok := c.form.Field(id)
	if !ok {
		return schema.Field{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return field, nil
}

// Next validates the current section and, when it passes, requests a move
// to the following section. The stored errors are replaced by the result of
// this validation pass.
func (c *Controller) Next() error {
	section, err := c.validateCurrent()
	if err != nil {
		return err
	}
	if err := c.nav.Next(); err != nil {
		return err
	}
	c.logger.Debugw("advancing", "from", section.SectionID)
	return nil
}

// Previous requests a move to the preceding section without validating.
func (c *Controller) Previous() error {
	c.mu.Lock()
	loggedIn := c.loggedIn
	c.mu.Unlock()
	if !loggedIn {
		return ErrNotLoggedIn
	}
	return c.nav.Previous()
}

// Submit validates the last section and hands the values to the sink. The
// section index is unchanged either way.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.loggedIn && !c.nav.IsLast() {
		c.mu.Unlock()
		return ErrNotLastSection
	}
	if _, pending := c.nav.Pending(); pending {
		c.mu.Unlock()
		return ErrTransitionPending
	}
	c.mu.Unlock()

	if _, err := c.validateCurrent(); err != nil {
		if IsValidation(err) {
			c.metrics.Submitted(metrics.OutcomeInvalid)
		}
		return err
	}

	c.mu.Lock()
	submission := Submission{
		RollNumber: c.rollNumber,
		FormTitle:  c.form.FormTitle,
		Values:     c.values.Clone(),
		Payload:    c.values.Payload(),
	}
	c.mu.Unlock()

	if err := c.sink.Submit(ctx, submission); err != nil {
		c.metrics.Submitted(metrics.OutcomeRejected)
		return fmt.Errorf("session: submit: %w", err)
	}
	c.metrics.Submitted(metrics.OutcomeSuccess)
	return nil
}

func (c *Controller) validateCurrent() (schema.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loggedIn {
		return schema.Section{}, ErrNotLoggedIn
	}
	section, ok := c.form.Section(c.nav.Index())
	if !ok {
		return schema.Section{}, errors.New("session: current section is out of range")
	}

	c.errors = c.validator.Section(section, c.values)
	if !c.errors.Empty() {
		c.metrics.ValidationFailed(section.SectionID)
		return section, &ValidationError{SectionID: section.SectionID, Errors: c.errors.Clone()}
	}
	return section, nil
}

// Snapshot returns a deep copy of the session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		LoggedIn:          c.loggedIn,
		RollNumber:        c.rollNumber,
		Schema:            c.form.Clone(),
		SectionIndex:      c.nav.Index(),
		Values:            c.values.Clone(),
		Errors:            c.errors.Clone(),
		RegistrationError: c.registrationError,
		LoginError:        c.loginError,
		Transitioning:     c.nav.Transitioning(),
	}
}

// CurrentSection returns the section at the committed index.
func (c *Controller) CurrentSection() (schema.Section, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loggedIn {
		return schema.Section{}, false
	}
	return c.form.Section(c.nav.Index())
}

// Wait blocks until any pending transition commits or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	return c.nav.Wait(ctx)
}

func outcome(err error) string {
	var invalid *client.SchemaError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case client.IsRejected(err):
		return metrics.OutcomeRejected
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeUnreachable
	}
}
