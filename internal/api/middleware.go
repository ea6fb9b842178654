/**
 * @description
 * This file provides authentication middleware for the API. Mutating
 * endpoints (session changes, quiz writes, donations) are protected by a
 * shared internal API key so only trusted front-end servers can drive the
 * wallet session; read endpoints stay open.
 *
 * @dependencies
 * - crypto/subtle: Constant-time key comparison.
 * - net/http: Standard Go HTTP library.
 */

package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

const internalAPIKeyHeader = "X-Internal-Api-Key"

// InternalAuthMiddleware verifies the shared secret on each request. The key
// is validated as non-empty at startup.
func InternalAuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(internalAPIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(errorResponse{Error: "Unauthorized.", Reason: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
