// Package handler contains the HTTP request handlers.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (headers, JSON body)
//  2. Call the service layer
//  3. Write the JSON response, mapping domain errors to status codes
//
// Handlers hold no business rules. They depend on small interfaces
// (Authenticator, TodoManager, Pinger) so tests can swap in fakes.
package handler
