package httpx

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultRetryMax     = 2
	DefaultRetryWaitMin = 200 * time.Millisecond
	DefaultRetryWaitMax = 2 * time.Second
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=http_client_mock.go --case=underscore --with-expecter
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOptions struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

type ClientOption func(*ClientOptions)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.Timeout = timeout
	}
}

// WithRetries sets how many times a request is retried on connection errors and 5xx/429 responses.
func WithRetries(max int) ClientOption {
	return func(o *ClientOptions) {
		o.RetryMax = max
	}
}

func WithRetryWait(minWait, maxWait time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.RetryWaitMin = minWait
		o.RetryWaitMax = maxWait
	}
}

// NewClient returns a *http.Client backed by go-retryablehttp.
func NewClient(logger *logrus.Logger, opts ...ClientOption) *http.Client {
	options := &ClientOptions{
		Timeout:      DefaultTimeout,
		RetryMax:     DefaultRetryMax,
		RetryWaitMin: DefaultRetryWaitMin,
		RetryWaitMax: DefaultRetryWaitMax,
	}
	for _, opt := range opts {
		opt(options)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = options.RetryMax
	rc.RetryWaitMin = options.RetryWaitMin
	rc.RetryWaitMax = options.RetryWaitMax
	rc.HTTPClient.Timeout = options.Timeout
	rc.Logger = &leveledLogger{logger: logger}

	return rc.StandardClient()
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *logrus.Logger
}

func (l *leveledLogger) fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{"component": "httpx"}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			f[k] = keysAndValues[i+1]
		}
	}
	return f
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(l.fields(keysAndValues)).Error(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(l.fields(keysAndValues)).Info(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(l.fields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(l.fields(keysAndValues)).Warn(msg)
}
