// Package generation provides the interface the application uses to obtain
// assistant responses from an external AI/LLM service. It abstracts the
// details of the LLM API integration (Gemini), so the supervision core and
// the service layer never couple to a specific provider.
package generation
