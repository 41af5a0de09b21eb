// Package domain contains the core business entities of the assistant:
// conversation messages and their validation rules. Domain types carry no
// dependencies on storage, transport, or AI integrations.
package domain
