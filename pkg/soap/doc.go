// Package soap builds the background-check vendor's SOAP 1.1 wire payloads
// from canonical relay requests and extracts result fields from the vendor's
// responses.
//
// The vendor requires exact case-sensitive agreement between the body element
// name, the SOAPAction header, and the result tag it returns; all three are
// derived from the same method string here. Envelope assembly is deliberately
// string-based because the embedded Logon and Request fragments travel inside
// CDATA sections whose byte layout (including the ]]> split) must be
// preserved exactly. The fragments themselves are built with etree.
//
// Extraction is tolerant by contract: vendor response shapes have varied
// across integrations, so a miss returns no value rather than an error.
package soap
