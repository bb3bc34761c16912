package relay

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/retailsol/credrelay/pkg/domain"
)

// handleSMSProxy is the dumb-pipe mode of the SMS relay: strip the /api/sms
// prefix, forward method, body, and query string to the vendor, inject Basic
// auth, and pass the upstream status code and body back verbatim. Callers
// depend on distinguishing upstream statuses (401 vs 429 vs 200), so the
// status must never be rewritten.
func (s *Server) handleSMSProxy(w http.ResponseWriter, r *http.Request) {
	clientID, idOK := s.resolver.Resolve("SMS_CLIENT_ID", "")
	clientSecret, secretOK := s.resolver.Resolve("SMS_CLIENT_SECRET", "")
	if !idOK || !secretOK {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Missing SMS credentials"})
		return
	}

	target := s.cfg.Upstreams.SMSBaseURL + strings.TrimPrefix(r.URL.Path, "/api/sms")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid request"})
		return
	}
	upstreamReq.SetBasicAuth(clientID, clientSecret)
	upstreamReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(upstreamReq)
	if err != nil {
		s.metrics.RecordUpstream("sms", 0, time.Since(start))
		s.logger.Error().Str("path", r.URL.Path).Msg("SMS upstream call failed")
		s.writeError(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error: s.redactor.Redact(err.Error()),
		})
		return
	}
	defer resp.Body.Close()
	s.metrics.RecordUpstream("sms", resp.StatusCode, time.Since(start))

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Error().Err(err).Msg("failed to copy upstream response body")
	}
}
