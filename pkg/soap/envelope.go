package soap

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/retailsol/credrelay/pkg/domain"
)

// Namespace is the vendor SOAP namespace. The SOAPAction header is the
// namespace concatenated with the method name, case preserved.
const Namespace = "http://www.kroll.co.za/"

// writeMethods is the allow-list of methods whose envelope carries an
// aArgument element. Read-only methods must omit it; the vendor rejects
// envelopes that include it elsewhere.
var writeMethods = map[string]struct{}{
	"ksoputrequest":         {},
	"ksoputbranch":          {},
	"ksoputrequestredirect": {},
}

// RequiresArgument reports whether method carries an aArgument element,
// matched case-insensitively.
func RequiresArgument(method string) bool {
	_, ok := writeMethods[strings.ToLower(method)]
	return ok
}

// Action returns the SOAPAction header value for method.
func Action(method string) string {
	return Namespace + method
}

// WrapCDATA wraps value in a CDATA section. Any literal "]]>" inside the
// value is split across two adjacent CDATA sections so it cannot terminate
// the section early: the sequence becomes "]]" at the end of one section and
// ">" at the start of the next.
func WrapCDATA(value string) string {
	safe := strings.ReplaceAll(value, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + safe + "]]>"
}

// LogonXML builds the vendor Logon fragment. Absent values become empty
// elements; the vendor decides whether an empty credential is acceptable.
func LogonXML(username, password, source string) string {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true

	token := doc.CreateElement("xml").CreateElement("Token")
	token.CreateElement("UserName").SetText(username)
	token.CreateElement("Password").SetText(password)
	token.CreateElement("Source").SetText(source)

	out, _ := doc.WriteToString()
	return out
}

// RequestXML builds the vendor Request fragment: subject identity fields and
// one Item per requested check type, each mirroring the caller's indemnity
// flag. Fields absent from the payload are emitted as empty elements.
func RequestXML(clientKey, agentKey, source string, p domain.MIEPayload, now time.Time) string {
	remoteKey := p.RemoteKey
	if remoteKey == "" {
		remoteKey = "RS_" + uuid.NewString()
	}

	itemSource := p.Source
	if itemSource == "" {
		itemSource = source
	}

	stamp := now.UTC().Format("2006-01-02T15:04:05.000") + "Z"

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true

	req := doc.CreateElement("xml").CreateElement("Request")
	req.CreateElement("ClientKey").SetText(clientKey)
	req.CreateElement("AgentClient").SetText(clientKey)
	req.CreateElement("AgentKey").SetText(agentKey)
	req.CreateElement("RemoteRequest").SetText(remoteKey)
	req.CreateElement("OrderNumber")
	req.CreateElement("RequestReason")
	req.CreateElement("Note")
	req.CreateElement("FirstNames").SetText(p.FirstName)
	req.CreateElement("Surname").SetText(p.LastName)
	req.CreateElement("MaidenName")
	req.CreateElement("IdNumber").SetText(p.IDNumber)
	req.CreateElement("Passport")
	req.CreateElement("DateOfBirth").SetText(p.DateOfBirth)
	req.CreateElement("ContactNumber").SetText(p.Phone)
	req.CreateElement("PersonEmail").SetText(p.Email)
	req.CreateElement("AlternateEmail")
	req.CreateElement("Source").SetText(itemSource)
	req.CreateElement("EntityKind").SetText("P")
	req.CreateElement("RemoteCaptureDate").SetText(stamp)
	req.CreateElement("RemoteSendDate").SetText(stamp)
	req.CreateElement("RemoteGroup")
	req.CreateElement("PrerequisiteGroupList")
	req.CreateElement("PrerequisiteImageList")

	items := req.CreateElement("ItemList")
	for _, checkType := range p.CheckTypes {
		item := items.CreateElement("Item")
		item.CreateElement("RemoteItemKey")
		item.CreateElement("ItemTypeCode").SetText(strings.ToUpper(checkType))
		item.CreateElement("Indemnity").SetText(fmt.Sprintf("%t", p.IndemnityAcknowledged))
		item.CreateElement("ItemInputGroupList")
	}

	out, _ := doc.WriteToString()
	return out
}

// Envelope wraps the Logon and Request fragments in the vendor SOAP envelope.
// The body element is named exactly method; argumentXML is included only for
// the write-method allow-list.
func Envelope(method, logonXML, argumentXML string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">`)
	b.WriteString(`<soap:Body>`)
	b.WriteString(`<` + method + ` xmlns="` + Namespace + `">`)
	b.WriteString(`<aLogonXml>` + WrapCDATA(logonXML) + `</aLogonXml>`)
	if RequiresArgument(method) {
		b.WriteString(`<aArgument>` + WrapCDATA(argumentXML) + `</aArgument>`)
	}
	b.WriteString(`</` + method + `>`)
	b.WriteString(`</soap:Body>`)
	b.WriteString(`</soap:Envelope>`)
	return b.String()
}
