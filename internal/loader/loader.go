// Package loader reads offline schema documents from files, an fs.FS, or
// plain HTTP locations.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Options configures a Loader.
type Options struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
	Logger         *zap.SugaredLogger
}

// Loader resolves schema.Source values into checked documents.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// New constructs a Loader. HTTP sources are only served when a client is
// supplied or AllowHTTP is set.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		logger:    logger,
	}
}

// Load reads src and decodes it into a schema.Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = readFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = readFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http sources are disabled")
		}
		data, err = fetch(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		l.logger.Debugw("schema read failed", "source", src.Location(), "kind", src.Kind(), "error", err)
		return schema.Document{}, err
	}

	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return schema.Document{}, err
	}
	l.logger.Debugw("schema loaded", "source", src.Location(), "bytes", len(data))
	return doc, nil
}
