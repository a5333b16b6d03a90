package authsdk

import (
	"context"
	"net/http"
)

// GetMetadata fetches the RFC 8414 authorization server metadata document.
func (c *SDKClient) GetMetadata(ctx context.Context) (*MetadataResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/oauth-authorization-server", nil, nil)
	if err != nil {
		return nil, err
	}

	var metadata MetadataResponse
	if err := decodeJSON(resp, &metadata, http.StatusOK); err != nil {
		return nil, err
	}

	return &metadata, nil
}
