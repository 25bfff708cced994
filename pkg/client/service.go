package client

import (
	"context"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Service is the remote collaborator a session depends on.
type Service interface {
	Register(ctx context.Context, rollNumber, name string) error
	FetchForm(ctx context.Context, rollNumber string) (schema.FormSchema, error)
}

// StaticService serves a fixed schema to every roll number. It backs offline
// sessions and tests.
type StaticService struct {
	mu          sync.Mutex
	form        schema.FormSchema
	registerErr error
	fetchErr    error
	registered  map[string]string
	fetches     int
}

var _ Service = (*StaticService)(nil)

// NewStaticService returns a service answering with form.
func NewStaticService(form schema.FormSchema) *StaticService {
	return &StaticService{
		form:       form.Clone(),
		registered: make(map[string]string),
	}
}

// FailRegistration makes subsequent Register calls return err.
func (s *StaticService) FailRegistration(err error) *StaticService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerErr = err
	return s
}

// FailFetch makes subsequent FetchForm calls return err.
func (s *StaticService) FailFetch(err error) *StaticService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
	return s
}

// Register records the user.
func (s *StaticService) Register(ctx context.Context, rollNumber, name string) error {
	if err := ctx.Err(); err != nil {
		return &ConnectivityError{Op: OpRegister, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registerErr != nil {
		return s.registerErr
	}
	s.registered[rollNumber] = name
	return nil
}

// FetchForm returns a copy of the configured schema.
func (s *StaticService) FetchForm(ctx context.Context, _ string) (schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return schema.FormSchema{}, &ConnectivityError{Op: OpFetchForm, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.fetchErr != nil {
		return schema.FormSchema{}, s.fetchErr
	}
	return s.form.Clone(), nil
}

// Registered returns the name recorded for rollNumber.
func (s *StaticService) Registered(rollNumber string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.registered[rollNumber]
	return name, ok
}

// Fetches returns how many times FetchForm was called.
func (s *StaticService) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}
