package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"potosi-be/internal/logger"
	"potosi-be/internal/transport"

	"go.uber.org/zap"
)

// sessionClient requests checkout sessions from the create-session endpoint
// over HTTP, the way a browser client would.
type sessionClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewSessionClient(endpoint string) SessionCreator {
	return &sessionClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *sessionClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("endpoint", c.endpoint),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if rid := logger.RequestIDFrom(ctx); rid != "" {
		httpReq.Header.Set(logger.RequestIDHeader, rid)
	}
	// the endpoint only opens sessions for the cart session that placed the order
	if sid := logger.SessionIDFrom(ctx); sid != "" {
		httpReq.Header.Set(transport.SessionHeader, sid)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("create-session request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSessionRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("create-session returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return nil, fmt.Errorf("%w: status %d", ErrSessionRequestFailed, resp.StatusCode)
	}

	var sess Session
	if err := json.Unmarshal(respBody, &sess); err != nil {
		log.Error("failed decoding create-session response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSessionRequestFailed, err)
	}
	if sess.ID == "" {
		log.Warn("create-session response has no session id")
		return nil, ErrMissingSessionID
	}

	return &sess, nil
}
