package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func sampleForm() schema.FormSchema {
	return schema.FormSchema{
		FormTitle: "Survey",
		Sections: []schema.Section{{
			SectionID: 1,
			Title:     "One",
			Fields: []schema.Field{{
				FieldID: "topics",
				Type:    schema.FieldTypeCheckbox,
				Label:   "Topics",
				Options: []schema.Option{{Value: "go", Label: "Go"}},
			}},
		}},
	}
}

func TestStaticService_FetchReturnsCopy(t *testing.T) {
	svc := client.NewStaticService(sampleForm())

	first, err := svc.FetchForm(context.Background(), "R1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	first.Sections[0].Fields[0].Options[0].Label = "mutated"

	second, err := svc.FetchForm(context.Background(), "R2")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff(sampleForm(), second); diff != "" {
		t.Fatalf("schema mutated through copy (-want +got):\n%s", diff)
	}
	if svc.Fetches() != 2 {
		t.Fatalf("fetches = %d, want 2", svc.Fetches())
	}
}

func TestStaticService_Register(t *testing.T) {
	svc := client.NewStaticService(sampleForm())
	if err := svc.Register(context.Background(), "R1", "Ann"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if name, ok := svc.Registered("R1"); !ok || name != "Ann" {
		t.Fatalf("registered = %q, %v", name, ok)
	}

	reject := &client.RejectedError{Op: client.OpRegister, StatusCode: 409, Message: "taken"}
	svc.FailRegistration(reject)
	if err := svc.Register(context.Background(), "R2", "Bob"); !errors.Is(err, reject) {
		t.Fatalf("expected configured rejection, got %v", err)
	}
}

func TestStaticService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.NewStaticService(sampleForm()).FetchForm(ctx, "R1")
	if !client.IsConnectivity(err) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "rejected default", err: &client.RejectedError{Op: client.OpFetchForm, StatusCode: 500}, want: "Failed to fetch form data."},
		{name: "rejected server", err: &client.RejectedError{Op: client.OpRegister, Message: "nope"}, want: "nope"},
		{name: "fetch unreachable", err: &client.ConnectivityError{Op: client.OpFetchForm, Err: errors.New("x")}, want: "Failed to connect to the form data service."},
		{name: "schema", err: &client.SchemaError{Err: errors.New("bad")}, want: "Received an invalid form definition."},
		{name: "other", err: errors.New("plain"), want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.Message(tt.err); got != tt.want {
				t.Fatalf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
