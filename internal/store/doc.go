// Package store defines the persistence interfaces consumed by the service
// layer, along with shared store errors. Implementations live under
// internal/platform.
package store
