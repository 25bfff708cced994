package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Submission is handed to a Sink once the last section validates.
type Submission struct {
	RollNumber string
	FormTitle  string
	Values     form.Values
	Payload    map[string]any
}

// Sink receives completed submissions.
type Sink interface {
	Submit(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Submit calls f.
func (f SinkFunc) Submit(ctx context.Context, submission Submission) error {
	return f(ctx, submission)
}

// LogSink writes submissions to a logger.
type LogSink struct {
	Logger *zap.SugaredLogger
}

// Submit logs the payload at info level.
func (s LogSink) Submit(_ context.Context, submission Submission) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infow("form submitted",
		"rollNumber", submission.RollNumber,
		"form", submission.FormTitle,
		"data", submission.Payload,
	)
	return nil
}
