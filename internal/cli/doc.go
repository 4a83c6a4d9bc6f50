// Package cli provides the client side of 'raccoon trigger'.
//
// TriggerClient talks to a running 'raccoon serve' over its HTTP trigger
// surface: POST /run, POST /dry-run and GET /plan. A spinner on stderr shows
// progress unless Quiet is set, so stdout only carries the rendered result.
//
// Transport failures are returned as *ConnectionError, classified as TLS,
// DNS, timeout or network problems. Non-2xx answers are returned as
// *ServerError carrying the server's message.
package cli
