/*
Package authsdk provides a client SDK for interacting with the FlightBay
authorization service.

# Overview

The authsdk package implements an OAuth2-compliant client for the FlightBay
authorization service. It provides both unauthenticated operations (via
SDKClient) and authenticated operations (via Session) with automatic
re-authentication when the access token expires.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic re-authentication

Create an SDKClient to interact with public endpoints and initiate authentication:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Fetch server metadata (RFC 8414)
	metadata, err := client.GetMetadata(ctx)

	// Authenticate to create a session
	session, err := client.AuthenticateWithClientCredentials(ctx, clientID, clientSecret, scopes)

Use a Session for authenticated operations, such as token introspection:

	result, err := session.Introspect(ctx, someToken)

# Authentication

The service supports a single OAuth2 grant type, client_credentials, for
machine-to-machine callers (flight search workers, booking services). The
grant does not issue refresh tokens. Sessions store the client credentials
and re-run the grant when the access token is within 30 seconds of expiry,
so callers never need to manage token lifetimes themselves.

Requesting no scopes grants the client's full registered allowance. Requesting
any scope outside the allowance fails the whole request with invalid_scope.

# Error Handling

Server errors are returned as *OAuth2Error with the RFC 6749 error code and
the HTTP status code preserved:

	session, err := client.AuthenticateWithClientCredentials(ctx, id, secret, nil)
	if err != nil {
		var oauthErr *authsdk.OAuth2Error
		if errors.As(err, &oauthErr) && oauthErr.Code == authsdk.ErrorCodeInvalidClient {
			// bad credentials
		}
	}

# Thread Safety

Sessions are safe for concurrent use. All Session methods use read/write locks
to protect access to tokens and scopes. Multiple goroutines can share a single
Session and make authenticated requests concurrently.
*/
package authsdk
