package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			s.logger.Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		s.logger.Debug("token accepted", zap.String("subject", claims.Subject))
		next.ServeHTTP(w, r)
	})
}
