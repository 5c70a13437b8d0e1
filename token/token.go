// Package token handles the bearer credential issued by the BugBoard login
// endpoint: normalization to the canonical "Bearer <jwt>" form, and unverified
// decoding of the JWT segments for diagnostics. Nothing here validates a
// signature; the token is opaque to the client and only transported.
package token

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Normalize returns t in the canonical "Bearer <raw>" form. A token that
// already carries a bearer prefix (any case) is rewritten with the canonical
// capitalization; a raw JWT gets the prefix prepended. Normalize is
// idempotent and returns "" unchanged.
func Normalize(t string) string {
	if t == "" {
		return ""
	}
	return bearerPrefix + Strip(t)
}

// Strip removes an optional leading "bearer " (case-insensitive) and
// surrounding whitespace, returning the raw JWT.
func Strip(t string) string {
	t = strings.TrimSpace(t)
	if len(t) >= len(bearerPrefix) && strings.EqualFold(t[:len(bearerPrefix)], bearerPrefix) {
		t = strings.TrimSpace(t[len(bearerPrefix):])
	}
	return t
}

// Header decodes the first JWT segment and returns its JSON text. Fails
// softly: malformed input yields a placeholder string, never an error.
func Header(t string) string {
	return segment(t, 0)
}

// Payload decodes the second JWT segment and returns its JSON text. Fails
// softly like Header.
func Payload(t string) string {
	return segment(t, 1)
}

func segment(t string, idx int) string {
	if t == "" {
		return "(no token)"
	}
	raw := Strip(t)
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return "not a JWT: " + raw
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[idx], "="))
	if err != nil {
		return "undecodable JWT segment: " + parts[idx]
	}
	return string(decoded)
}

// Claims decodes the payload into structured claims without verifying the
// signature. Unlike Header/Payload this is strict: a malformed token is an
// error, because callers inspect individual claim values.
func Claims(t string) (jwt.MapClaims, error) {
	raw := Strip(t)
	if raw == "" {
		return nil, fmt.Errorf("empty token")
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}
	return claims, nil
}

// Redact returns a log-safe form of an Authorization value: the first few
// characters of the JWT plus its length, never the full credential.
func Redact(authorization string) string {
	if authorization == "" {
		return "<missing>"
	}
	if !strings.EqualFold(authorization[:min(len(authorization), len(bearerPrefix))], bearerPrefix) {
		return fmt.Sprintf("<non-bearer> (len=%d)", len(authorization))
	}
	raw := Strip(authorization)
	head := raw
	if len(head) > 18 {
		head = head[:18] + "..."
	}
	return fmt.Sprintf("Bearer %s (len=%d)", head, len(raw))
}
