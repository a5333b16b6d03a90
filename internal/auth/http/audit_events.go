package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flightbay/flightbay/internal/auth/service"
	"github.com/flightbay/flightbay/pkg/authsdk"
	"github.com/flightbay/flightbay/pkg/httpx"
	"github.com/flightbay/flightbay/pkg/slogx"
)

// AuditEventsHandler serves GET /v1/audit/events, the audit trail for a
// single client. Requires the audit:read scope.
type AuditEventsHandler struct {
	AuditService *service.AuditService
}

// ServeHTTP godoc
//
//	@Summary		Audit Trail
//	@Description	Lists the most recent audit events for a client, newest first.
//	@Tags			Audit
//	@Produce		json
//	@Security		BearerAuth
//	@Param			client_id	query		string					true	"Client to list events for"
//	@Param			limit		query		int						false	"Maximum events to return (default 50, cap 100)"
//	@Success		200			{object}	authsdk.AuditEventsListResponse	"events"
//	@Failure		400			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/audit/events [get].
func (h *AuditEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		limit = n
	}

	events, err := h.AuditService.RecentForClient(ctx, clientID, limit)
	if err != nil {
		log.Error("failed to list audit events", "err", err, "client_id", clientID)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.AuditEventsListResponse{
		Events: make([]authsdk.AuditEventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, authsdk.AuditEventResponse{
			ID:        e.ID,
			ClientID:  e.ClientID,
			Action:    e.Action,
			Outcome:   e.Outcome,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
