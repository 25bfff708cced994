package tui

import (
	"io"

	"go.uber.org/zap"
)

// Theme captures the prefixes used when printing messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	PromptPrefix: "",
	InfoPrefix:   "",
	ErrorPrefix:  "! ",
}

// Option configures the renderer and the wizard.
type Option func(*settings)

type settings struct {
	driver PromptDriver
	theme  Theme
	out    io.Writer
	logger *zap.SugaredLogger
}

func newSettings(options []Option) settings {
	s := settings{theme: DefaultTheme, logger: zap.NewNop().Sugar()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s
}

// WithPromptDriver overrides the survey-backed driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		s.theme = theme
	}
}

// WithOutput sets where the default driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(s *settings) {
		s.out = out
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
