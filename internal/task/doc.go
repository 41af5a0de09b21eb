// Package task implements the deadline-bounded supervision of long-running
// agent operations. A Supervisor races an operation against the synchronous
// caller's deadline; when the deadline wins, the still-running operation is
// handed to a Continuation that keeps polling it on a fixed cadence, sends
// scripted waiting messages through a Notifier, and gives up after the
// script is exhausted. Abandoning a wait never cancels the underlying work,
// and at most one terminal message is ever delivered per operation.
package task
