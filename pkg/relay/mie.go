package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/retailsol/credrelay/pkg/domain"
	"github.com/retailsol/credrelay/pkg/soap"
)

// maxSnippetLen bounds the upstream body excerpt attached to transport
// errors. The full body is never echoed on failure paths.
const maxSnippetLen = 2000

// handleMIE relays a background-check request to the vendor SOAP endpoint:
// validate, resolve secrets, build the envelope, dispatch, parse, respond.
// Validation and credential failures short-circuit before any outbound call.
func (s *Server) handleMIE(w http.ResponseWriter, r *http.Request) {
	var req domain.MIERequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	if req.Method == "" {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Missing method"})
		return
	}
	if req.SoapURL == "" {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Missing soapUrl"})
		return
	}

	password, ok := s.resolver.Resolve("MIE_PASSWORD", req.Password)
	if !ok {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{
			Error: "Missing MIE password",
			Hint:  `Set MIE_PASSWORD as an environment variable OR add secrets.local.json with { "MIE_PASSWORD": "..." }`,
		})
		return
	}

	username := req.Username
	if username == "" {
		username, _ = s.resolver.Resolve("MIE_USERNAME", "")
	}

	logonXML := req.ALogonXML
	if logonXML == "" {
		logonXML = soap.LogonXML(username, password, req.Source)
	}

	argumentXML := req.AArgument
	if argumentXML == "" && soap.RequiresArgument(req.Method) {
		argumentXML = soap.RequestXML(req.ClientKey, req.AgentKey, req.Source, req.Payload, time.Now())
	}

	envelope := soap.Envelope(req.Method, logonXML, argumentXML)
	action := soap.Action(req.Method)

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, req.SoapURL, strings.NewReader(envelope))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid soapUrl"})
		return
	}
	upstreamReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	upstreamReq.Header.Set("SOAPAction", action)
	upstreamReq.Header.Set("Accept", "text/xml")

	start := time.Now()
	resp, err := s.httpClient.Do(upstreamReq)
	if err != nil {
		s.metrics.RecordUpstream("mie", 0, time.Since(start))
		s.logger.Error().Str("soap_action", action).Msg("MIE upstream call failed")
		s.writeError(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error: s.redactor.Redact(err.Error()),
		})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.RecordUpstream("mie", resp.StatusCode, time.Since(start))
		s.writeError(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:      "Failed to read MIE response",
			SoapAction: action,
			SoapURL:    req.SoapURL,
		})
		return
	}
	respText := string(body)
	s.metrics.RecordUpstream("mie", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.writeError(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:           fmt.Sprintf("MIE SOAP HTTP %d", resp.StatusCode),
			SoapAction:      action,
			SoapURL:         req.SoapURL,
			ResponseSnippet: s.redactor.Redact(truncate(respText, maxSnippetLen)),
		})
		return
	}

	// The upstream answered at the transport level; a parse miss degrades to
	// null fields, never to a failed request.
	result := domain.MIEResult{
		OK:              true,
		Method:          req.Method,
		SoapAction:      action,
		RawSoapResponse: respText,
	}
	if resultText, found := soap.ExtractTag(respText, req.Method+"Result"); found {
		result.Result = &resultText
		if key, found := soap.ExtractRequestKey(resultText); found {
			result.RequestKey = &key
			result.Reference = &key
		}
	}

	s.writeJSON(w, http.StatusOK, result)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
