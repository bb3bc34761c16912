package relay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailsol/credrelay/pkg/domain"
)

func setSMSCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("SMS_CLIENT_ID", "test-id")
	t.Setenv("SMS_CLIENT_SECRET", "test-secret")
}

func doRelay(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleSMSBalance_Success(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance", r.URL.Path)
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "test-id", user)
		assert.Equal(t, "test-secret", pass)
		_, _ = w.Write([]byte(`{"balance": 150.5, "currency": "ZAR"}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/balance", "")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.BalanceResult](t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, 150.5, result.Balance)
	assert.Equal(t, "ZAR", result.Currency)
}

func TestHandleSMSBalance_UpstreamFailurePassesStatus(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid credentials"}}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/balance", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid credentials", resp["error"])
}

func TestHandleSMSBalance_MissingCredentials(t *testing.T) {
	t.Setenv("SMS_CLIENT_ID", "")
	t.Setenv("SMS_CLIENT_SECRET", "")

	srv := newTestServer(t, "http://unused.invalid")
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/balance", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSMSHistory_Success(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Messages", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"messages": [{"id": "m1"}, {"id": "m2"}], "totalCount": 40}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/history?limit=25", "")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.HistoryResult](t, rec)
	assert.True(t, result.Success)
	assert.Len(t, result.Messages, 2)
	assert.Equal(t, 40, result.TotalCount)
}

func TestHandleSMSHistory_VendorNotFoundDegradesGracefully(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "no such endpoint"}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/history", "")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.HistoryResult](t, rec)
	assert.True(t, result.Success)
	assert.Empty(t, result.Messages)
	assert.NotNil(t, result.Messages)
	assert.Equal(t, 0, result.TotalCount)
}

func TestHandleSMSHistory_TransportFailureDegradesGracefully(t *testing.T) {
	setSMSCredentials(t)

	srv := newTestServer(t, "http://127.0.0.1:1")
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/history", "")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.HistoryResult](t, rec)
	assert.True(t, result.Success)
	assert.Empty(t, result.Messages)
	assert.Equal(t, 0, result.TotalCount)
}

func TestHandleSMSSend_Validation(t *testing.T) {
	setSMSCredentials(t)
	srv := newTestServer(t, "http://unused.invalid")

	cases := []struct {
		name      string
		body      string
		wantError string
	}{
		{"empty message", `{"message": "  ", "recipients": [{"phone": "0821234567"}]}`, "Message cannot be empty"},
		{"missing message", `{"recipients": [{"phone": "0821234567"}]}`, "Message cannot be empty"},
		{"no recipients", `{"message": "hi"}`, "No recipients specified"},
		{"empty recipients", `{"message": "hi", "recipients": []}`, "No recipients specified"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRelay(t, srv, http.MethodPost, "/api/sms/send", tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeJSON[map[string]any](t, rec)
			assert.Equal(t, tc.wantError, resp["error"])
		})
	}
}

func TestHandleSMSSend_Success(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/BulkMessages", r.URL.Path)
		_, _ = w.Write([]byte(`{"cost": 2, "results": [{"messageId": "msg-1"}, {"messageId": "msg-2"}]}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodPost, "/api/sms/send",
		`{"message": "hello", "recipients": [{"phone": "0821234567"}, {"cellphone_number": "0831234567"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.SendResult](t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, 2, result.RecipientCount)
}

func TestHandleSMSSend_UpstreamFailurePassesStatus(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"message": "Insufficient credits"}}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodPost, "/api/sms/send",
		`{"message": "hello", "recipients": [{"phone": "0821234567"}]}`)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "Insufficient credits", resp["error"])
}

func TestHandleSMSTest_Connected(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"balance": 99}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/test", "")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeJSON[domain.TestResult](t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "connected", result.Status)
	assert.Equal(t, float64(99), result.Balance)
}

func TestHandleSMSTest_Failed(t *testing.T) {
	setSMSCredentials(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer vendor.Close()

	srv := newTestServer(t, vendor.URL)
	rec := doRelay(t, srv, http.MethodGet, "/api/sms/test", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "failed", resp["status"])
}
