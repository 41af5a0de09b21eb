// Package gemini implements generation.Generator using Google's Gemini API.
// It assembles the prompt from the configured system instructions and the
// user's bounded conversation history, and retries transient API failures
// with exponential backoff.
package gemini
