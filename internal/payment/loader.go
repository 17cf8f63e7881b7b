package payment

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

const (
	StripeJSURL = "https://js.stripe.com/v3/"

	defaultLoadTimeout  = 10 * time.Second
	defaultPollInterval = 250 * time.Millisecond
)

// scriptLoader probes the provider's client script until it answers. Once it
// has, later calls return immediately.
type scriptLoader struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	interval   time.Duration

	mu     sync.Mutex
	loaded bool
}

func NewClientLoader(url string) ClientLoader {
	return &scriptLoader{
		url:        url,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		timeout:    defaultLoadTimeout,
		interval:   defaultPollInterval,
	}
}

func (l *scriptLoader) EnsureLoaded(ctx context.Context) error {
	if l.isLoaded() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if l.ready(ctx) {
			l.mu.Lock()
			l.loaded = true
			l.mu.Unlock()
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.FromCtx(ctx).Warn("payment client load timed out",
					zap.String("url", l.url),
					zap.Duration("timeout", l.timeout),
				)
				return ErrClientLoadTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *scriptLoader) isLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

func (l *scriptLoader) ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, l.url, nil)
	if err != nil {
		return false
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
