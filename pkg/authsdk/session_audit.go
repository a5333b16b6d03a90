package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListAuditEvents lists the most recent audit events for a client, newest
// first. Requires the audit:read scope. A limit of 0 uses the server default.
func (s *Session) ListAuditEvents(ctx context.Context, clientID string, limit int) (*AuditEventsListResponse, error) {
	query := url.Values{
		"client_id": {clientID},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	resp, err := s.doAuthRequest(
		ctx,
		http.MethodGet,
		"/v1/audit/events?"+query.Encode(),
		nil,
		nil,
		"audit:read",
	)
	if err != nil {
		return nil, err
	}

	var events AuditEventsListResponse
	if err := decodeJSON(resp, &events, http.StatusOK); err != nil {
		return nil, err
	}

	return &events, nil
}
