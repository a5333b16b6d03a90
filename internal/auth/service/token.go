package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flightbay/flightbay/internal/auth/domain"
	"github.com/flightbay/flightbay/internal/auth/registry"
	"github.com/flightbay/flightbay/pkg/cryptox"
	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/flightbay/flightbay/pkg/slogx"
)

var (
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidScope  = errors.New("invalid_scope")
)

type TokenService struct {
	Signer   jwtx.Signer
	Registry *registry.Registry
	Audit    *AuditService // optional, nil disables audit recording

	Issuer    string
	Audience  []string
	AccessTTL time.Duration
}

// IssueClientCredentials implements the OAuth2 client_credentials grant.
//
// This grant is used for machine-to-machine (M2M) authentication where a
// client authenticates as itself. No refresh token is issued since the client
// can always re-authenticate with its credentials.
//
// Scope handling: an empty request grants the client's full registered
// allowance. A non-empty request must be a subset of the allowance, any
// scope outside it fails the whole request with ErrInvalidScope rather than
// silently narrowing the grant.
//
// An unknown client id and a wrong secret both return ErrInvalidClient so the
// response does not reveal which part of the credentials was wrong.
func (s *TokenService) IssueClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
	requestedScopes []string,
) (*domain.Token, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	// 1. Look up the client in the immutable registry
	c, err := s.Registry.Lookup(clientID)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownClient) {
			l.Info("client_credentials grant for unknown client", "client_id", clientID)
			s.record(ctx, clientID, domain.AuditActionTokenDenied, domain.AuditOutcomeInvalidClient, "unknown client")
			return nil, ErrInvalidClient
		}
		return nil, err
	}

	// 2. Verify the client secret
	if err := cryptox.VerifySecret(clientSecret, c.SecretHash); err != nil {
		l.Info("client secret verification failed", "client_id", clientID)
		s.record(ctx, clientID, domain.AuditActionTokenDenied, domain.AuditOutcomeInvalidClient, "secret mismatch")
		return nil, ErrInvalidClient
	}

	// 3. Resolve effective scopes
	effective, err := resolveScopes(c, requestedScopes)
	if err != nil {
		l.Info("client_credentials grant with disallowed scope",
			"client_id", clientID,
			"requested", strings.Join(requestedScopes, " "),
		)
		s.record(ctx, clientID, domain.AuditActionTokenDenied, domain.AuditOutcomeInvalidScope,
			strings.Join(requestedScopes, " "))
		return nil, err
	}

	// 4. Build and sign the access token. The client is the subject.
	claims := jwtx.NewAccessClaims(
		c.ID,        // subject = client_id
		c.ID,        // client_id claim
		effective,   // scopes
		s.AccessTTL, // token lifetime
		s.Issuer,    // issuer
		s.Audience,  // audience
		now,         // current time
	)

	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token", "error", err, "client_id", clientID)
		return nil, err
	}

	s.record(ctx, clientID, domain.AuditActionTokenIssued, domain.AuditOutcomeSuccess,
		strings.Join(effective, " "))

	return &domain.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.AccessTTL,
		Scope:       strings.Join(effective, " "),
	}, nil
}

// record forwards to the audit service when one is wired. Audit failures are
// logged inside the service and never fail the grant.
func (s *TokenService) record(ctx context.Context, clientID, action, outcome, detail string) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, clientID, action, outcome, detail)
}

// resolveScopes returns the scopes the token should carry. Requested scopes
// are deduplicated before the subset check.
func resolveScopes(c domain.Client, requested []string) ([]string, error) {
	if len(requested) == 0 {
		out := make([]string, len(c.Scopes))
		copy(out, c.Scopes)
		return out, nil
	}

	effective := dedupe(requested)
	for _, scope := range effective {
		if !c.AllowsScope(scope) {
			return nil, ErrInvalidScope
		}
	}
	return effective, nil
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
