package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultMaxBytes caps a downloaded track.
const DefaultMaxBytes = 200 << 20

// StatusError is returned when the audio host answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("audio host returned status %d: %s", e.StatusCode, e.Status)
}

// NewHTTPClient returns a client tuned for downloading whole tracks.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 2 * time.Minute,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

type fetched struct {
	data        []byte
	contentType string
}

// fetch downloads src into memory. Failures carry a media error code.
func (p *Player) fetch(ctx context.Context, src string) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fetched{}, &Error{Code: CodeSrcNotSupported, Err: err}
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fetched{}, &Error{Code: CodeAborted, Err: ctx.Err()}
		}
		return fetched{}, &Error{Code: CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetched{}, &Error{
			Code: codeForStatus(resp.StatusCode),
			Err:  &StatusError{StatusCode: resp.StatusCode, Status: resp.Status},
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return fetched{}, &Error{Code: CodeAborted, Err: ctx.Err()}
		}
		return fetched{}, &Error{Code: CodeNetwork, Err: err}
	}
	if int64(len(data)) > p.maxBytes {
		return fetched{}, &Error{
			Code: CodeSrcNotSupported,
			Err:  fmt.Errorf("track exceeds %d bytes", p.maxBytes),
		}
	}
	if len(data) == 0 {
		return fetched{}, &Error{Code: CodeDecode, Err: errors.New("empty body")}
	}

	return fetched{data: data, contentType: resp.Header.Get("Content-Type")}, nil
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusGone:
		return CodeSrcNotSupported
	default:
		return CodeNetwork
	}
}
