package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/navigation"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type recordingSink struct {
	mu          sync.Mutex
	submissions []session.Submission
}

func (s *recordingSink) Submit(_ context.Context, submission session.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submission)
	return nil
}

func newController(t *testing.T, fs schema.FormSchema, opts ...session.Option) (*session.Controller, *client.StaticService, *recordingSink) {
	t.Helper()
	svc := client.NewStaticService(fs)
	sink := &recordingSink{}
	base := []session.Option{session.WithSink(sink), session.WithTransitionDelay(0)}
	return session.New(svc, append(base, opts...)...), svc, sink
}

func loggedIn(t *testing.T, fs schema.FormSchema, opts ...session.Option) (*session.Controller, *recordingSink) {
	t.Helper()
	ctrl, _, sink := newController(t, fs, opts...)
	require.NoError(t, ctrl.Login(context.Background(), "R1"))
	return ctrl, sink
}

func TestController_SubmitRequiredNameScenario(t *testing.T) {
	ctrl, sink := loggedIn(t, testsupport.SingleFieldSchema())
	ctx := context.Background()

	err := ctrl.Submit(ctx)
	var invalid *session.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.SectionID)

	want := form.Errors{"name": "Name is required."}
	if diff := cmp.Diff(want, ctrl.Snapshot().Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, sink.submissions)

	require.NoError(t, ctrl.SetFieldValue("name", form.Scalar("Ann")))
	require.NoError(t, ctrl.Submit(ctx))

	state := ctrl.Snapshot()
	assert.Empty(t, state.Errors)
	assert.Equal(t, 0, state.SectionIndex)
	require.Len(t, sink.submissions, 1)
	if diff := cmp.Diff(map[string]any{"name": "Ann"}, sink.submissions[0].Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "R1", sink.submissions[0].RollNumber)
	assert.Equal(t, "Registration", sink.submissions[0].FormTitle)
}

func TestController_LoginSuccessResetsState(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.WizardSchema())

	require.NoError(t, ctrl.SetFieldValue("fullName", form.Scalar("Jo")))
	require.Error(t, ctrl.Next())
	require.NoError(t, ctrl.Login(context.Background(), "R2"))

	state := ctrl.Snapshot()
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "R2", state.RollNumber)
	assert.Equal(t, "Student Survey", state.Schema.FormTitle)
	assert.Empty(t, state.Values)
	assert.Empty(t, state.Errors)
	assert.Equal(t, 0, state.SectionIndex)
	assert.Empty(t, state.LoginError)
}

func TestController_LoginMissingRollNumber(t *testing.T) {
	ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())

	err := ctrl.Login(context.Background(), "  ")
	require.ErrorIs(t, err, session.ErrMissingRollNumber)

	state := ctrl.Snapshot()
	assert.False(t, state.LoggedIn)
	assert.Equal(t, "Please enter your Roll Number to login.", state.LoginError)
	assert.Zero(t, svc.Fetches())
}

func TestController_LoginMissingKeepsSession(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.SingleFieldSchema())

	require.ErrorIs(t, ctrl.Login(context.Background(), ""), session.ErrMissingRollNumber)
	assert.True(t, ctrl.Snapshot().LoggedIn)
}

func TestController_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "rejected with server message",
			err:     &client.RejectedError{Op: client.OpFetchForm, StatusCode: 404, Message: "No form for this roll number"},
			message: "No form for this roll number",
		},
		{
			name:    "rejected default",
			err:     &client.RejectedError{Op: client.OpFetchForm, StatusCode: 500},
			message: "Failed to fetch form data.",
		},
		{
			name:    "unreachable",
			err:     &client.ConnectivityError{Op: client.OpFetchForm, Err: errors.New("dial tcp")},
			message: "Failed to connect to the form data service.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())
			require.NoError(t, ctrl.Login(context.Background(), "R1"))
			require.NoError(t, ctrl.SetFieldValue("name", form.Scalar("")))
			require.True(t, session.IsValidation(ctrl.Submit(context.Background())))
			require.NotEmpty(t, ctrl.Snapshot().Errors)

			svc.FailFetch(tt.err)
			err := ctrl.Login(context.Background(), "R1")
			require.ErrorIs(t, err, tt.err)

			state := ctrl.Snapshot()
			assert.False(t, state.LoggedIn)
			assert.Empty(t, state.Schema.Sections)
			assert.Empty(t, state.Values)
			assert.Empty(t, state.Errors)
			assert.Empty(t, state.RollNumber)
			assert.Equal(t, tt.message, state.LoginError)
			_, ok := ctrl.CurrentSection()
			assert.False(t, ok)
		})
	}
}

func TestController_RegisterThenLogin(t *testing.T) {
	ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())

	require.NoError(t, ctrl.Register(context.Background(), "R7", "Ann"))

	name, ok := svc.Registered("R7")
	require.True(t, ok)
	assert.Equal(t, "Ann", name)

	state := ctrl.Snapshot()
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "R7", state.RollNumber)
	assert.Empty(t, state.RegistrationError)
}

func TestController_RegisterRejectedSkipsLogin(t *testing.T) {
	ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())
	require.ErrorIs(t, ctrl.Login(context.Background(), ""), session.ErrMissingRollNumber)

	svc.FailRegistration(&client.RejectedError{Op: client.OpRegister, StatusCode: 409, Message: "User already exists"})
	require.True(t, client.IsRejected(ctrl.Register(context.Background(), "R7", "Ann")))

	state := ctrl.Snapshot()
	assert.False(t, state.LoggedIn)
	assert.Equal(t, "User already exists", state.RegistrationError)
	assert.Equal(t, "Please enter your Roll Number to login.", state.LoginError, "login error is independent")
	assert.Zero(t, svc.Fetches())
}

func TestController_RegisterUnreachable(t *testing.T) {
	ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())
	svc.FailRegistration(&client.ConnectivityError{Op: client.OpRegister, Err: errors.New("refused")})

	require.Error(t, ctrl.Register(context.Background(), "R7", "Ann"))
	assert.Equal(t, "Failed to connect to the registration service.", ctrl.Snapshot().RegistrationError)
}

func TestController_RegisterMissingRollNumber(t *testing.T) {
	ctrl, svc, _ := newController(t, testsupport.SingleFieldSchema())

	require.ErrorIs(t, ctrl.Register(context.Background(), "", "Ann"), session.ErrMissingRollNumber)
	_, ok := svc.Registered("")
	assert.False(t, ok)
	assert.NotEmpty(t, ctrl.Snapshot().RegistrationError)
}

func TestController_SetFieldValue(t *testing.T) {
	ctrl, _, _ := newController(t, testsupport.WizardSchema())
	require.ErrorIs(t, ctrl.SetFieldValue("fullName", form.Scalar("x")), session.ErrNotLoggedIn)

	require.NoError(t, ctrl.Login(context.Background(), "R1"))
	require.ErrorIs(t, ctrl.SetFieldValue("missing", form.Scalar("x")), session.ErrUnknownField)

	require.Error(t, ctrl.Next())
	require.Equal(t, "Full Name is required.", ctrl.Snapshot().Errors.Get("fullName"))

	// An invalid value still clears the stale error.
	require.NoError(t, ctrl.SetFieldValue("fullName", form.Scalar("J")))
	state := ctrl.Snapshot()
	assert.Empty(t, state.Errors.Get("fullName"))
	assert.Equal(t, "Email is required.", state.Errors.Get("email"))
	assert.Equal(t, form.Scalar("J"), state.Values.Get("fullName"))
}

func TestController_ToggleOption(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.WizardSchema())

	require.NoError(t, ctrl.ToggleOption("topics", "web", true))
	require.NoError(t, ctrl.ToggleOption("topics", "go", true))
	require.NoError(t, ctrl.ToggleOption("topics", "web", false))
	require.NoError(t, ctrl.ToggleOption("topics", "data", true))
	assert.Equal(t, form.Multi{"go", "data"}, ctrl.Snapshot().Values.Get("topics"))

	require.ErrorIs(t, ctrl.ToggleOption("year", "1", true), session.ErrNotMultiValued)
	require.Error(t, ctrl.ToggleOption("topics", "art", true))
}

func fillContact(t *testing.T, ctrl *session.Controller) {
	t.Helper()
	require.NoError(t, ctrl.SetFieldValue("fullName", form.Scalar("Jane Doe")))
	require.NoError(t, ctrl.SetFieldValue("email", form.Scalar("jane@example.com")))
}

func TestController_NextGatedByValidation(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.WizardSchema())

	err := ctrl.Next()
	var invalid *session.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []schema.FieldID{"email", "fullName"}, invalid.Errors.IDs())
	assert.Equal(t, 0, ctrl.Snapshot().SectionIndex)

	require.NoError(t, ctrl.SetFieldValue("phone", form.Scalar("12ab")))
	fillContact(t, ctrl)
	err = ctrl.Next()
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, form.Errors{"phone": "Use up to 10 digits."}, invalid.Errors)

	require.NoError(t, ctrl.SetFieldValue("phone", form.Scalar("5551234")))
	require.NoError(t, ctrl.Next())

	section, ok := ctrl.CurrentSection()
	require.True(t, ok)
	assert.Equal(t, "Background", section.Title)
	assert.Empty(t, ctrl.Snapshot().Errors)
}

func TestController_PreviousSkipsValidation(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.WizardSchema())
	require.ErrorIs(t, ctrl.Previous(), navigation.ErrFirstSection)

	fillContact(t, ctrl)
	require.NoError(t, ctrl.Next())
	require.NoError(t, ctrl.Previous())

	state := ctrl.Snapshot()
	assert.Equal(t, 0, state.SectionIndex)
	assert.Equal(t, form.Scalar("Jane Doe"), state.Values.Get("fullName"), "values survive navigation")
}

func TestController_SubmitOnlyOnLastSection(t *testing.T) {
	ctrl, sink := loggedIn(t, testsupport.WizardSchema())
	require.ErrorIs(t, ctrl.Submit(context.Background()), session.ErrNotLastSection)

	fillContact(t, ctrl)
	require.NoError(t, ctrl.Next())
	require.NoError(t, ctrl.SetFieldValue("year", form.Scalar("2")))
	require.NoError(t, ctrl.Next())

	require.True(t, session.IsValidation(ctrl.Submit(context.Background())))
	require.Empty(t, sink.submissions)
	require.NoError(t, ctrl.ToggleOption("topics", "go", true))
	require.ErrorIs(t, ctrl.Next(), navigation.ErrLastSection)
	require.NoError(t, ctrl.Submit(context.Background()))

	require.Len(t, sink.submissions, 1)
	payload := sink.submissions[0].Payload
	assert.Equal(t, []string{"go"}, payload["topics"])
	assert.Equal(t, "2", payload["year"])
	assert.Equal(t, 2, ctrl.Snapshot().SectionIndex)
}

func TestController_SubmitRejectedWhileMovePending(t *testing.T) {
	sched := &testsupport.ManualScheduler{}
	ctrl, _, sink := newController(t, testsupport.WizardSchema(),
		session.WithTransitionDelay(navigation.DefaultDelay),
		session.WithScheduler(sched),
	)
	require.NoError(t, ctrl.Login(context.Background(), "R1"))
	fillContact(t, ctrl)
	require.NoError(t, ctrl.Next())
	require.Equal(t, 1, sched.Fire())
	require.NoError(t, ctrl.SetFieldValue("year", form.Scalar("1")))
	require.NoError(t, ctrl.Next())
	require.Equal(t, 1, sched.Fire())
	require.NoError(t, ctrl.ToggleOption("topics", "web", true))

	require.NoError(t, ctrl.Previous())
	require.ErrorIs(t, ctrl.Submit(context.Background()), session.ErrTransitionPending)
	require.Empty(t, sink.submissions)

	require.Equal(t, 1, sched.Fire())
	assert.Equal(t, 1, ctrl.Snapshot().SectionIndex)
}

func TestController_DelayedTransitions(t *testing.T) {
	sched := &testsupport.ManualScheduler{}
	ctrl, _, _ := newController(t, testsupport.WizardSchema(),
		session.WithTransitionDelay(navigation.DefaultDelay),
		session.WithScheduler(sched),
	)
	require.NoError(t, ctrl.Login(context.Background(), "R1"))
	fillContact(t, ctrl)

	require.NoError(t, ctrl.Next())
	require.NoError(t, ctrl.Next())

	state := ctrl.Snapshot()
	assert.True(t, state.Transitioning)
	assert.Equal(t, 0, state.SectionIndex)

	assert.Equal(t, 1, sched.Fire())
	require.NoError(t, ctrl.Wait(context.Background()))

	state = ctrl.Snapshot()
	assert.False(t, state.Transitioning)
	assert.Equal(t, 1, state.SectionIndex, "rapid Next advances once")
}

func TestController_SnapshotIsDeepCopy(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.WizardSchema())
	require.NoError(t, ctrl.ToggleOption("topics", "go", true))

	state := ctrl.Snapshot()
	state.Values["topics"].(form.Multi)[0] = "mutated"
	state.Schema.Sections[0].Title = "mutated"
	state.Errors["x"] = "y"

	again := ctrl.Snapshot()
	assert.Equal(t, form.Multi{"go"}, again.Values.Get("topics"))
	assert.Equal(t, "Contact", again.Schema.Sections[0].Title)
	assert.Empty(t, again.Errors)
}

func TestController_Logout(t *testing.T) {
	ctrl, _ := loggedIn(t, testsupport.SingleFieldSchema())
	ctrl.Logout()

	state := ctrl.Snapshot()
	assert.False(t, state.LoggedIn)
	assert.Empty(t, state.RollNumber)
	require.ErrorIs(t, ctrl.Next(), session.ErrNotLoggedIn)
}

// gatedService blocks FetchForm for roll numbers listed in gates until the
// gate is closed.
type gatedService struct {
	*client.StaticService
	started chan string
	gates   map[string]chan struct{}
	forms   map[string]schema.FormSchema
}

func (s *gatedService) FetchForm(ctx context.Context, roll string) (schema.FormSchema, error) {
	if gate, ok := s.gates[roll]; ok {
		s.started <- roll
		<-gate
	}
	if f, ok := s.forms[roll]; ok {
		return f, nil
	}
	return s.StaticService.FetchForm(ctx, roll)
}

func TestController_StaleLoginIsDiscarded(t *testing.T) {
	older := testsupport.SingleFieldSchema()
	older.FormTitle = "Older"
	svc := &gatedService{
		StaticService: client.NewStaticService(testsupport.WizardSchema()),
		started:       make(chan string, 1),
		gates:         map[string]chan struct{}{"A": make(chan struct{})},
		forms:         map[string]schema.FormSchema{"A": older},
	}
	ctrl := session.New(svc, session.WithTransitionDelay(0))

	result := make(chan error, 1)
	go func() { result <- ctrl.Login(context.Background(), "A") }()
	require.Equal(t, "A", <-svc.started)

	require.NoError(t, ctrl.Login(context.Background(), "B"))
	close(svc.gates["A"])
	require.ErrorIs(t, <-result, session.ErrSuperseded)

	state := ctrl.Snapshot()
	assert.Equal(t, "B", state.RollNumber)
	assert.Equal(t, "Student Survey", state.Schema.FormTitle)
}

func TestController_SharedLoginSurvivesCancelledCaller(t *testing.T) {
	svc := &gatedService{
		StaticService: client.NewStaticService(testsupport.WizardSchema()),
		started:       make(chan string, 2),
		gates:         map[string]chan struct{}{"R1": make(chan struct{})},
	}
	ctrl := session.New(svc, session.WithTransitionDelay(0))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- ctrl.Login(firstCtx, "R1") }()
	require.Equal(t, "R1", <-svc.started)

	second := make(chan error, 1)
	go func() { second <- ctrl.Login(context.Background(), "R1") }()

	cancelFirst()
	require.Error(t, <-first)
	close(svc.gates["R1"])
	require.NoError(t, <-second)

	state := ctrl.Snapshot()
	assert.True(t, state.LoggedIn)
	assert.Empty(t, state.LoginError)
	assert.Equal(t, "Student Survey", state.Schema.FormTitle)
}

func TestController_LoginWithCancelledContext(t *testing.T) {
	ctrl, _, _ := newController(t, testsupport.SingleFieldSchema())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctrl.Login(ctx, "R1")
	require.True(t, client.IsConnectivity(err))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ctrl.Snapshot().LoggedIn)
}

func TestController_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ctrl, _ := loggedIn(t, testsupport.SingleFieldSchema(), session.WithMetrics(metrics.New(reg)))

	require.Error(t, ctrl.Submit(context.Background()))
	require.NoError(t, ctrl.SetFieldValue("name", form.Scalar("Ann")))
	require.NoError(t, ctrl.Submit(context.Background()))

	count, err := testutil.GatherAndCount(reg,
		"formflow_session_requests_total",
		"formflow_session_validation_failures_total",
		"formflow_session_submissions_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
