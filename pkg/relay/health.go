package relay

import (
	"net/http"
	"time"
)

type healthEnvVars struct {
	MIEUsername     bool `json:"MIE_USERNAME"`
	MIEPassword     bool `json:"MIE_PASSWORD"`
	SMSClientID     bool `json:"SMS_CLIENT_ID"`
	SMSClientSecret bool `json:"SMS_CLIENT_SECRET"`
}

type healthResponse struct {
	OK                   bool          `json:"ok"`
	Service              string        `json:"service"`
	Port                 int           `json:"port"`
	Time                 string        `json:"time"`
	SecretsFileDetected  bool          `json:"secretsFileDetected"`
	EnvVariablesDetected healthEnvVars `json:"envVariablesDetected"`
}

// handleHealth reports liveness and which credential sources are present.
// Only booleans leave the process; secret values never do.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		OK:                  true,
		Service:             ServiceName,
		Port:                s.cfg.Server.Port,
		Time:                time.Now().UTC().Format(time.RFC3339),
		SecretsFileDetected: s.resolver.FileDetected(),
		EnvVariablesDetected: healthEnvVars{
			MIEUsername:     s.resolver.EnvSet("MIE_USERNAME"),
			MIEPassword:     s.resolver.EnvSet("MIE_PASSWORD"),
			SMSClientID:     s.resolver.EnvSet("SMS_CLIENT_ID"),
			SMSClientSecret: s.resolver.EnvSet("SMS_CLIENT_SECRET"),
		},
	})
}
