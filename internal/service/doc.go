// Package service contains the application service layer. The Assistant
// coordinates the conversation-history store, the response generator, and
// the deadline-bounded task supervisor into the single synchronous
// operation the webhook handler consumes.
package service
