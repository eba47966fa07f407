package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/fhuszti/medias-pipeline-go/internal/handler/api"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/golang-jwt/jwt/v4"
)

const (
	apiKeyHeader  = "X-API-Key"
	apiKeySubject = "api-key"

	tokenIssuer   = "core"
	tokenAudience = "medias"
)

// WithAuth accepts either the shared API key, sent as X-API-Key or as a
// Bearer token, or a short-lived RS256 JWT when jwtPublicKeyPEM is set.
// With neither configured every request is let through.
func WithAuth(apiKey, jwtPublicKeyPEM string) func(http.Handler) http.Handler {
	if apiKey == "" && jwtPublicKeyPEM == "" {
		logger.Warn(context.Background(), "⚠️  no API key or JWT public key configured, authentication is disabled")
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r)
			})
		}
	}

	var verify func(raw string) (jwt.MapClaims, error)
	if jwtPublicKeyPEM != "" {
		pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtPublicKeyPEM))
		if err != nil {
			panic(fmt.Sprintf("invalid JWT public key: %v", err))
		}
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
		)
		verify = func(raw string) (jwt.MapClaims, error) {
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodRS256 {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return pubKey, nil
			})
			if err != nil || !tok.Valid {
				return nil, fmt.Errorf("unauthorized")
			}
			return claims, nil
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get(apiKeyHeader); key != "" {
				if !matchesKey(apiKey, key) {
					api.WriteError(w, http.StatusUnauthorized, "invalid API key", nil)
					return
				}
				next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), apiKeySubject, nil)))
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "missing API key or bearer token", nil)
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			if matchesKey(apiKey, raw) {
				next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), apiKeySubject, nil)))
				return
			}
			if verify == nil {
				api.WriteError(w, http.StatusUnauthorized, "invalid API key", nil)
				return
			}

			claims, err := verify(raw)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if msg := checkClaims(claims, time.Now()); msg != "" {
				api.WriteError(w, http.StatusUnauthorized, msg, nil)
				return
			}

			sub, _ := claims["sub"].(string)
			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), sub, toStringSlice(claims["roles"]))))
		})
	}
}

func matchesKey(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// checkClaims returns the rejection reason, empty when the claims are fine.
func checkClaims(claims jwt.MapClaims, now time.Time) string {
	if !claims.VerifyIssuer(tokenIssuer, true) {
		return "bad issuer"
	}
	if !claims.VerifyAudience(tokenAudience, true) {
		return "bad audience"
	}
	if !claims.VerifyExpiresAt(now.Unix(), true) {
		return "token expired"
	}
	if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(now.Add(30*time.Second)) {
		return "invalid iat"
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return "missing sub"
	}
	return ""
}

func withSubject(ctx context.Context, sub string, roles []string) context.Context {
	ctx = context.WithValue(ctx, api_context.AuthUserIDKey, sub)
	return context.WithValue(ctx, api_context.AuthRolesKey, roles)
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
