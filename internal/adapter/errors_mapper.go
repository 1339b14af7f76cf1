package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/zotero-kb-sync/internal/utils"
	"github.com/go-resty/resty/v2"
)

func mapHTTPError(op string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode(), Body: body}

	var envelope utils.APIErrorBody
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	}

	return apiErr
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= http.StatusInternalServerError:
		return ErrServer
	default:
		return nil
	}
}
