// Package extract turns a recorded voice note into structured candidate
// transactions by calling a remote generative model. Clients speak either the
// Gemini API directly or a hosted relay function that owns the model key.
package extract
