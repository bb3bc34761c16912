package domain

// MIERequest is the canonical inbound payload for the background-check relay.
// Method and SoapURL are mandatory; the dispatcher rejects the request before
// any outbound call when either is missing. Password may be supplied in the
// body for local development; the secret resolver falls back to the
// environment and the local secrets file otherwise.
type MIERequest struct {
	Method    string     `json:"method"`
	SoapURL   string     `json:"soapUrl"`
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	ClientKey string     `json:"clientKey"`
	AgentKey  string     `json:"agentKey"`
	Source    string     `json:"source"`
	Payload   MIEPayload `json:"payload"`

	// Pre-built XML fragment overrides. When set they replace the generated
	// Logon and Request fragments verbatim.
	ALogonXML string `json:"aLogonXml,omitempty"`
	AArgument string `json:"aArgument,omitempty"`
}

// MIEPayload carries the subject identity fields and the ordered list of
// requested check types. Absent fields are emitted as empty XML elements by
// the transformer; they never fail the request.
type MIEPayload struct {
	CheckTypes            []string `json:"checkTypes"`
	IDNumber              string   `json:"idNumber"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	DateOfBirth           string   `json:"dateOfBirth,omitempty"`
	Email                 string   `json:"email,omitempty"`
	Phone                 string   `json:"phone,omitempty"`
	Source                string   `json:"source,omitempty"`
	RemoteKey             string   `json:"remoteKey,omitempty"`
	IndemnityAcknowledged bool     `json:"indemnityAcknowledged"`
}

// MIEResult is the normalized success reply for the background-check relay.
// RequestKey and Reference are nil when the extractor found no vendor key;
// a parse miss is a valid outcome, not an error.
type MIEResult struct {
	OK              bool    `json:"ok"`
	Method          string  `json:"method"`
	SoapAction      string  `json:"soapAction"`
	RequestKey      *string `json:"requestKey"`
	Reference       *string `json:"reference"`
	Result          *string `json:"result"`
	RawSoapResponse string  `json:"rawSoapResponse"`
}

// ErrorResponse is the structured JSON error model for every failure path.
// The snippet fields are populated only for upstream transport failures and
// are bounded; secrets never appear here.
type ErrorResponse struct {
	OK              bool   `json:"ok"`
	Error           string `json:"error"`
	Hint            string `json:"hint,omitempty"`
	SoapAction      string `json:"soapAction,omitempty"`
	SoapURL         string `json:"soapUrl,omitempty"`
	ResponseSnippet string `json:"responseSnippet,omitempty"`
}
