package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/neuroplan-sync/models"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, body)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrBadGateway, body)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

func mapTransportError(err error) error {
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}

// classifyTransportError folds a request that never produced a response
// into a retryable result.
func classifyTransportError(err error) models.ApplyResult {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return models.RetryableResult("request timed out", 0)
	case errors.Is(err, context.Canceled):
		return models.RetryableResult("request canceled", 0)
	default:
		return models.RetryableResult("authority unreachable: "+err.Error(), 0)
	}
}

// classifyResponse maps an apply response onto its outcome category.
// 401 stays retryable: a bad token is a local configuration problem and
// must not cost the user queued work.
func classifyResponse(resp *resty.Response, ok *models.ApplyResponse, failure *models.ConflictResponse) models.ApplyResult {
	status := resp.StatusCode()
	reason := strings.TrimSpace(failure.Error)
	if reason == "" {
		reason = http.StatusText(status)
	}

	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return models.OkResult(ok.ServerID, ok.Version, ok.UpdatedAt)
	case status == http.StatusConflict:
		return models.ConflictResult(failure.Remote.Snapshot())
	case status == http.StatusTooManyRequests:
		return models.RetryableResult(reason, parseRetryAfter(resp.Header().Get("Retry-After"), time.Now()))
	case status == http.StatusRequestTimeout, status == http.StatusUnauthorized, status >= http.StatusInternalServerError:
		return models.RetryableResult(reason, parseRetryAfter(resp.Header().Get("Retry-After"), time.Now()))
	default:
		return models.FatalResult(reason)
	}
}

// parseRetryAfter accepts both forms of the header: delta seconds and an
// HTTP date. Unparseable or past values yield zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}

	return 0
}
