package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/flightbay/flightbay/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef") // 32 bytes

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()
	s, err := jwtx.NewSignerHS256("flightbay-hs256-001", testKey)
	require.NoError(t, err)
	return s
}

func newTestVerifier(opts jwtx.VerifyOptions) jwtx.Verifier {
	return jwtx.NewVerifierHS256(testKey, opts)
}

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwtx.NewAccessClaims(
		"demo-client", "demo-client",
		[]string{"flight:read"},
		ttl,
		"flightbay-auth",
		[]string{"flightbay-api"},
		time.Now().UTC(),
	)
	token, err := newTestSigner(t).Sign(claims)
	require.NoError(t, err)
	return token
}

func TestNewSignerHS256RejectsShortKeys(t *testing.T) {
	_, err := jwtx.NewSignerHS256("kid", []byte("too-short"))
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token := signedToken(t, time.Hour)

	v := newTestVerifier(jwtx.VerifyOptions{
		Issuer:   "flightbay-auth",
		Audience: []string{"flightbay-api"},
	})

	claims, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "demo-client", claims.ClientID)
	require.Equal(t, []string{"flight:read"}, claims.Scopes)
	require.Equal(t, "flightbay-auth", claims.Issuer)
}

func TestVerifyMalformedToken(t *testing.T) {
	v := newTestVerifier(jwtx.VerifyOptions{})

	for _, in := range []string{"", "garbage", "only.two", "a.b.c.d"} {
		_, err := v.Verify(in)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", in)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	token := signedToken(t, time.Hour)
	v := newTestVerifier(jwtx.VerifyOptions{})

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a byte in the payload. The signature no longer matches, so this
	// must fail closed regardless of what the new payload decodes to.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err := v.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyWrongKey(t *testing.T) {
	token := signedToken(t, time.Hour)

	other := jwtx.NewVerifierHS256([]byte("ffffffffffffffffffffffffffffffff"), jwtx.VerifyOptions{})
	_, err := other.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	// A token signed with "none" must never pass, even though its payload
	// parses fine.
	claims := jwtx.NewAccessClaims(
		"demo-client", "demo-client", nil,
		time.Hour, "flightbay-auth", []string{"flightbay-api"}, time.Now().UTC(),
	)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v := newTestVerifier(jwtx.VerifyOptions{})
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyExpiredToken(t *testing.T) {
	token := signedToken(t, -time.Minute)
	v := newTestVerifier(jwtx.VerifyOptions{})

	_, err := v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyExpiredTokenWithLeeway(t *testing.T) {
	token := signedToken(t, -10*time.Second)

	strict := newTestVerifier(jwtx.VerifyOptions{})
	_, err := strict.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	lenient := newTestVerifier(jwtx.VerifyOptions{Leeway: 30 * time.Second})
	_, err = lenient.Verify(token)
	require.NoError(t, err)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	token := signedToken(t, time.Hour)
	v := newTestVerifier(jwtx.VerifyOptions{Issuer: "other-issuer"})

	_, err := v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyAudienceMismatch(t *testing.T) {
	token := signedToken(t, time.Hour)
	v := newTestVerifier(jwtx.VerifyOptions{
		Issuer:   "flightbay-auth",
		Audience: []string{"someone-elses-api"},
	})

	_, err := v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrAudience)
}
