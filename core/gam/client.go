package gam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// apiError is the error envelope the platform returns for rejected requests.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// networkPath builds an API path scoped to the session's network.
func (s *Session) networkPath(suffix string) string {
	return fmt.Sprintf("%s/v1/networks/%s/%s", s.endpoint, s.networkCode, suffix)
}

// getJSON issues a GET and decodes the JSON response into out.
func (s *Session) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	u := path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	return s.do(op, req, out)
}

// postJSON issues a POST with a JSON body and decodes the response into out.
func (s *Session) postJSON(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(op, req, out)
}

// getRaw issues a GET and returns the response body unread. The caller owns
// closing it.
func (s *Session) getRaw(ctx context.Context, op, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("User-Agent", s.applicationName)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, requestError(op, resp)
	}
	return resp.Body, nil
}

func (s *Session) do(op string, req *http.Request, out any) error {
	req.Header.Set("User-Agent", s.applicationName)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return requestError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// requestError maps a non-2xx response to a *RequestError, pulling the
// message out of the platform's error envelope when present.
func requestError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var envelope apiError
	message := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message
	}

	return &RequestError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
