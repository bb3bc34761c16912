package domain

// SendRequest is the inbound payload for the SMS convenience send endpoint.
type SendRequest struct {
	Message    string      `json:"message"`
	Recipients []Recipient `json:"recipients"`
	Options    SendOptions `json:"options"`
}

// Recipient identifies one SMS destination. Callers send either field; the
// dispatcher prefers CellphoneNumber.
type Recipient struct {
	CellphoneNumber string `json:"cellphone_number,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// Number returns the first populated destination field.
func (r Recipient) Number() string {
	if r.CellphoneNumber != "" {
		return r.CellphoneNumber
	}
	return r.Phone
}

// SendOptions carries optional per-batch send settings.
type SendOptions struct {
	ScheduledFor string `json:"scheduledFor,omitempty"`
	Reference    string `json:"reference,omitempty"`
	TestMode     bool   `json:"testMode,omitempty"`
}

// SMSMessage is the per-recipient wire shape posted to the vendor bulk API.
type SMSMessage struct {
	Content     string `json:"content"`
	Destination string `json:"destination"`
	SendTime    string `json:"sendTime,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// BulkSendBody is the vendor bulk-send request body.
type BulkSendBody struct {
	Messages []SMSMessage `json:"messages"`
	TestMode bool         `json:"testMode"`
	SenderID string       `json:"senderId,omitempty"`
}

// BalanceResult is the normalized balance envelope returned to dashboards.
type BalanceResult struct {
	Success  bool           `json:"success"`
	Balance  float64        `json:"balance"`
	Currency string         `json:"currency"`
	Data     map[string]any `json:"data"`
}

// HistoryResult is the normalized history envelope. Upstream failures degrade
// to an empty-but-successful result so a transient vendor hiccup does not
// break the dashboard.
type HistoryResult struct {
	Success    bool           `json:"success"`
	Messages   []any          `json:"messages"`
	TotalCount int            `json:"totalCount"`
	Data       map[string]any `json:"data"`
}

// SendResult is the normalized send envelope.
type SendResult struct {
	Success        bool           `json:"success"`
	MessageID      any            `json:"messageId,omitempty"`
	Results        any            `json:"results,omitempty"`
	Cost           any            `json:"cost,omitempty"`
	RecipientCount int            `json:"recipientCount"`
	Data           map[string]any `json:"data"`
}

// TestResult is the normalized connection-test envelope.
type TestResult struct {
	Success bool           `json:"success"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Balance float64        `json:"balance"`
	Data    map[string]any `json:"data,omitempty"`
}
