package agencyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/myerrors"
	"github.com/4oBuko/spy-cat-console/internal/slogx"
)

// errorBody covers the error shapes the agency is known to send: a plain
// detail string, a list of {loc, msg} items, or the older {"message": ...}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &myerrors.TransportError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &myerrors.TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := slogx.RequestID(ctx); reqID != "" {
		req.Header.Set(slogx.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "agency request failed", "op", op, "method", method, "path", path, "error", err)
		return nil, &myerrors.TransportError{Op: op, Err: fmt.Errorf("request to the agency failed: %w", err)}
	}
	c.logger.DebugContext(ctx, "agency request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// decodeJSON reads the whole body, turns non-2xx statuses into typed errors
// and decodes successful bodies into target.
func decodeJSON(op string, id int64, resp *http.Response, target any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &myerrors.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(op, id, resp.StatusCode, raw)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &myerrors.TransportError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

func parseErrorResponse(op string, id int64, statusCode int, raw []byte) error {
	detail, field := extractDetail(raw)

	switch statusCode {
	case http.StatusNotFound:
		return &myerrors.NotFoundError{Resource: resourceOf(op), Id: id, Detail: detail}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return &myerrors.ValidationError{StatusCode: statusCode, Detail: detail, Field: field}
	}

	return &myerrors.TransportError{
		Op:     op,
		Err:    fmt.Errorf("unexpected status code: %d", statusCode),
		Detail: detail,
	}
}

func extractDetail(raw []byte) (string, string) {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", ""
	}

	if len(body.Detail) > 0 {
		var text string
		if err := json.Unmarshal(body.Detail, &text); err == nil && text != "" {
			return text, body.Field
		}
		var items []detailItem
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			field := body.Field
			for _, item := range items {
				msgs = append(msgs, item.Msg)
				if field == "" && len(item.Loc) > 0 {
					if name, ok := item.Loc[len(item.Loc)-1].(string); ok {
						field = name
					}
				}
			}
			return strings.Join(msgs, "; "), field
		}
	}
	return body.Message, body.Field
}

func resourceOf(op string) string {
	switch {
	case strings.Contains(op, "target"):
		return "target"
	case strings.Contains(op, "mission"):
		return "mission"
	default:
		return "cat"
	}
}
