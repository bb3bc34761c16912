// Package relay implements the credential-relay HTTP surface: the
// background-check SOAP dispatcher, the SMS vendor passthrough and
// convenience endpoints, and the health and metrics handlers.
//
// Every request runs the same per-request pipeline (validate, resolve
// secrets, build the vendor envelope, dispatch upstream, parse, respond)
// with no state shared across requests beyond the read-only configuration.
package relay

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailsol/credrelay/pkg/config"
	"github.com/retailsol/credrelay/pkg/domain"
	"github.com/retailsol/credrelay/pkg/secrets"
	"github.com/retailsol/credrelay/pkg/sms"
)

// ServiceName identifies this process in health replies and logs.
const ServiceName = "credrelay"

const upstreamTimeout = 60 * time.Second

// Server hosts the relay endpoints.
type Server struct {
	cfg        *config.Config
	resolver   *secrets.Resolver
	redactor   *secrets.Redactor
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

// NewServer creates a relay server. resolver may be nil; a default resolver
// is used then.
func NewServer(cfg *config.Config, resolver *secrets.Resolver, logger zerolog.Logger) *Server {
	if resolver == nil {
		resolver = secrets.NewResolver(cfg.Secrets.Paths...)
	}
	return &Server{
		cfg:        cfg,
		resolver:   resolver,
		redactor:   secrets.FromEnv(),
		httpClient: &http.Client{Timeout: upstreamTimeout},
		logger:     logger,
		metrics:    NewMetrics(),
	}
}

// Handler returns the routed handler with logging and metrics middleware
// applied. Exact convenience paths take precedence over the passthrough
// prefix route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("POST /api/mie", s.handleMIE)
	mux.HandleFunc("GET /api/sms/balance", s.handleSMSBalance)
	mux.HandleFunc("GET /api/sms/history", s.handleSMSHistory)
	mux.HandleFunc("POST /api/sms/send", s.handleSMSSend)
	mux.HandleFunc("GET /api/sms/test", s.handleSMSTest)
	mux.HandleFunc("/api/sms/", s.handleSMSProxy)

	var handler http.Handler = mux
	handler = s.metrics.Middleware(handler)
	handler = s.loggingMiddleware(handler)
	return handler
}

// Metrics exposes the server's metric recorder, mainly for tests.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// smsClient builds a vendor client with freshly resolved credentials.
func (s *Server) smsClient() (*sms.Client, error) {
	clientID, idOK := s.resolver.Resolve("SMS_CLIENT_ID", "")
	clientSecret, secretOK := s.resolver.Resolve("SMS_CLIENT_SECRET", "")
	if !idOK || !secretOK {
		return nil, &domain.ConfigurationError{
			Name: "SMS credentials",
			Hint: "Set SMS_CLIENT_ID and SMS_CLIENT_SECRET as environment variables or add them to " + secrets.FileName,
		}
	}
	return sms.NewClient(s.cfg.Upstreams.SMSBaseURL, clientID, clientSecret, s.cfg.Upstreams.SenderID, s.httpClient, s.logger), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, resp domain.ErrorResponse) {
	s.writeJSON(w, status, resp)
}
