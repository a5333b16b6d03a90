package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256KeySize is the minimum accepted HMAC key length in bytes. RFC 7518
// requires keys at least as long as the hash output (256 bits for HS256).
const MinHS256KeySize = 32

// HS256Signer implements the Signer interface using HMAC-SHA256 with a
// process-wide shared secret.
type HS256Signer struct {
	kid string
	key []byte
}

func newHS256Signer(kid string, key []byte) (*HS256Signer, error) {
	if len(key) < MinHS256KeySize {
		return nil, fmt.Errorf("jwtx: HS256 key must be at least %d bytes, got %d", MinHS256KeySize, len(key))
	}

	return &HS256Signer{kid: kid, key: key}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.key)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.key) < MinHS256KeySize {
		return errors.New("jwtx: HS256 key too short")
	}
	return nil
}

// HS256Verifier validates JWTs signed using HMAC-SHA256 with the same
// shared secret the signer holds. Verification is pure computation over the
// token string and the configured expectations; it never touches the network
// or storage, so it's safe to call per-request from many goroutines.
type HS256Verifier struct {
	key  []byte
	opts VerifyOptions
}

// Verify validates the JWT string and returns its parsed Claims.
//
// Each failure mode maps to a distinct sentinel: structurally broken tokens
// return ErrMalformed, signature failures ErrInvalidSig, then the claim
// checks run in order (exp/nbf, iss, aud).
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Claim validation runs below so expiry, issuer, and audience each
		// surface their own sentinel instead of the library's combined error.
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, fmt.Errorf("%w: %s", ErrInvalidSig, err)
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, fmt.Errorf("%w: %s", ErrAlgMismatch, err)
		default:
			return Claims{}, fmt.Errorf("%w: %s", ErrMalformed, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrInvalidClaim
	}

	// Now check all the claim requirements.
	if err := claims.ValidateExpiryWithLeeway(v.opts.Leeway); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
