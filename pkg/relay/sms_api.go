package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/retailsol/credrelay/pkg/domain"
	"github.com/retailsol/credrelay/pkg/sms"
)

// smsFailure is the failure envelope for the SMS convenience endpoints.
type smsFailure struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// handleSMSBalance wraps the vendor balance call in a normalized envelope.
func (s *Server) handleSMSBalance(w http.ResponseWriter, r *http.Request) {
	client, err := s.smsClient()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: err.Error()})
		return
	}

	result, err := client.Balance(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, smsFailure{Error: s.redactor.Redact(err.Error()), Type: "proxy_error"})
		return
	}

	if !result.OK {
		s.writeJSON(w, result.StatusCode, smsFailure{
			Error: sms.ErrorMessage(result.Data, "Failed to fetch balance"),
			Data:  result.Data,
		})
		return
	}

	currency, _ := result.Data["currency"].(string)
	if currency == "" {
		currency = "Credits"
	}
	s.writeJSON(w, http.StatusOK, domain.BalanceResult{
		Success:  true,
		Balance:  sms.Number(result.Data, "balance", "credits"),
		Currency: currency,
		Data:     result.Data,
	})
}

// handleSMSHistory wraps the vendor history call. Upstream failures degrade
// to an empty-but-successful result: dashboards poll this endpoint and must
// not break on a transient vendor hiccup.
func (s *Server) handleSMSHistory(w http.ResponseWriter, r *http.Request) {
	client, err := s.smsClient()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: err.Error()})
		return
	}

	query := r.URL.Query()
	result, err := client.History(r.Context(), sms.HistoryOptions{
		Limit:    query.Get("limit"),
		Offset:   query.Get("offset"),
		FromDate: query.Get("fromDate"),
		ToDate:   query.Get("toDate"),
	})
	if err != nil {
		s.writeJSON(w, http.StatusOK, domain.HistoryResult{
			Success:  true,
			Messages: []any{},
			Data:     map[string]any{"error": s.redactor.Redact(err.Error())},
		})
		return
	}

	if !result.OK {
		s.writeJSON(w, http.StatusOK, domain.HistoryResult{
			Success:  true,
			Messages: []any{},
			Data:     map[string]any{"error": result.Data},
		})
		return
	}

	messages := sms.List(result.Data, "messages", "results")
	if messages == nil {
		messages = []any{}
	}
	totalCount := int(sms.Number(result.Data, "totalCount"))
	if totalCount == 0 {
		totalCount = len(messages)
	}
	s.writeJSON(w, http.StatusOK, domain.HistoryResult{
		Success:    true,
		Messages:   messages,
		TotalCount: totalCount,
		Data:       result.Data,
	})
}

// handleSMSSend validates the batch, normalizes recipient numbers, and posts
// the vendor bulk-send shape.
func (s *Server) handleSMSSend(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: "Invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: "Message cannot be empty"})
		return
	}
	if len(req.Recipients) == 0 {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: "No recipients specified"})
		return
	}

	client, err := s.smsClient()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Error: err.Error()})
		return
	}

	result, err := client.Send(r.Context(), req.Message, req.Recipients, req.Options)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, smsFailure{Error: s.redactor.Redact(err.Error()), Type: "proxy_error"})
		return
	}

	if !result.OK {
		s.writeJSON(w, result.StatusCode, smsFailure{
			Error: sms.ErrorMessage(result.Data, "SMS send failed"),
			Data:  result.Data,
		})
		return
	}

	send := domain.SendResult{
		Success:        true,
		Results:        result.Data["results"],
		Cost:           result.Data["cost"],
		RecipientCount: len(req.Recipients),
		Data:           result.Data,
	}
	if results, ok := result.Data["results"].([]any); ok && len(results) > 0 {
		if first, ok := results[0].(map[string]any); ok {
			send.MessageID = first["messageId"]
		}
	}
	s.writeJSON(w, http.StatusOK, send)
}

// handleSMSTest probes vendor connectivity via the balance endpoint.
func (s *Server) handleSMSTest(w http.ResponseWriter, r *http.Request) {
	client, err := s.smsClient()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, smsFailure{Status: "failed", Error: err.Error()})
		return
	}

	result, err := client.Balance(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, smsFailure{
			Status: "error",
			Error:  s.redactor.Redact(err.Error()),
			Type:   "proxy_error",
		})
		return
	}

	if !result.OK {
		s.writeJSON(w, result.StatusCode, smsFailure{
			Status: "failed",
			Error:  sms.ErrorMessage(result.Data, fmt.Sprintf("HTTP %d", result.StatusCode)),
			Data:   result.Data,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, domain.TestResult{
		Success: true,
		Status:  "connected",
		Message: "SMS vendor API connection successful",
		Balance: sms.Number(result.Data, "balance", "credits"),
		Data:    result.Data,
	})
}
