// Package chat contains the Google Chat integration: the inbound webhook
// event model, the synchronous response envelope, outbound message chunking,
// and a task.Notifier implementation that posts messages through the Google
// Chat REST API on behalf of the bot's service account.
package chat
