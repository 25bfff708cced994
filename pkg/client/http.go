package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const (
	registerPath = "/create-user"
	formPath     = "/get-form"
)

// HTTPService implements Service against the hosted form endpoints.
type HTTPService struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	retries       uint64
	retryInterval time.Duration
	logger        *zap.SugaredLogger
	requestID     func() string
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService constructs the service from options.
func NewHTTPService(options ...Option) *HTTPService {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	var httpClient *http.Client
	if cfg.httpClient != nil {
		clone := *cfg.httpClient
		if cfg.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.timeout
		}
		httpClient = &clone
	} else {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &HTTPService{
		baseURL:       cfg.baseURL,
		http:          httpClient,
		timeout:       cfg.timeout,
		retries:       cfg.retries,
		retryInterval: cfg.retryInterval,
		logger:        cfg.logger,
		requestID:     cfg.requestID,
	}
}

type registerRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Register creates a user. Any 2xx status is success.
func (s *HTTPService) Register(ctx context.Context, rollNumber, name string) error {
	body, err := json.Marshal(registerRequest{RollNumber: rollNumber, Name: name})
	if err != nil {
		return fmt.Errorf("client: encode registration: %w", err)
	}

	status, data, err := s.do(ctx, OpRegister, http.MethodPost, registerPath, nil, body)
	if err != nil {
		return err
	}
	if !successful(status) {
		return rejected(OpRegister, status, data)
	}
	return nil
}

// FetchForm retrieves and checks the schema assigned to rollNumber.
func (s *HTTPService) FetchForm(ctx context.Context, rollNumber string) (schema.FormSchema, error) {
	query := url.Values{}
	query.Set("rollNumber", rollNumber)

	status, data, err := s.do(ctx, OpFetchForm, http.MethodGet, formPath, query, nil)
	if err != nil {
		return schema.FormSchema{}, err
	}
	if !successful(status) {
		return schema.FormSchema{}, rejected(OpFetchForm, status, data)
	}

	form, err := schema.Decode(data)
	if err != nil {
		return schema.FormSchema{}, &SchemaError{Err: err}
	}
	return form, nil
}

func (s *HTTPService) do(ctx context.Context, op Operation, method, path string, query url.Values, body []byte) (int, []byte, error) {
	if ctx == nil {
		return 0, nil, errors.New("client: context is required")
	}
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		status int
		data   []byte
	)
	attempt := 0
	operation := func() error {
		attempt++
		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if s.requestID != nil {
			req.Header.Set("X-Request-ID", s.requestID())
		}

		resp, err := s.http.Do(req)
		if err != nil {
			s.logger.Debugw("request failed", "operation", op, "attempt", attempt, "error", err)
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		status, data = resp.StatusCode, payload
		return nil
	}

	if err := backoff.Retry(operation, s.policy(ctx)); err != nil {
		s.logger.Warnw("service unreachable", "operation", op, "url", endpoint, "attempts", attempt, "error", err)
		return 0, nil, &ConnectivityError{Op: op, Err: err}
	}
	s.logger.Debugw("request completed", "operation", op, "status", status, "attempts", attempt)
	return status, data, nil
}

// maxRetryElapsed bounds the total time spent retrying one request.
const maxRetryElapsed = time.Minute

// policy returns a single-attempt policy unless retries are configured.
// WithMaxRetries treats zero as unlimited, so it is only used for n > 0.
func (s *HTTPService) policy(ctx context.Context) backoff.BackOff {
	if s.retries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.retryInterval
	exp.MaxElapsedTime = maxRetryElapsed
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, s.retries), ctx)
}

func successful(status int) bool {
	return status >= 200 && status < 300
}

func rejected(op Operation, status int, data []byte) error {
	msg := op.rejectedMessage()
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &RejectedError{Op: op, StatusCode: status, Message: msg}
}
