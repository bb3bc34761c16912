// Package domain defines the request, response, and error models shared by
// the relay handlers and the vendor clients. Every entity here is
// request-scoped: created when an inbound call arrives, discarded when the
// normalized reply is written. Nothing in this package is persisted or cached
// across requests.
package domain
