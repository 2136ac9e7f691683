// Package model defines the provider-agnostic contract for the generative
// text backend and the retrying gateway every agent calls through.
//
// Core goals:
//   - Keep the request/response shape minimal ({model, prompt, stream} -> text)
//   - Classify failures as timeouts or transport errors so the Gateway can
//     apply its one-retry-on-timeout discipline
//   - Facilitate lightweight scripting for tests (ScriptedModel)
//
// Providers (Ollama, OpenAI-compatible, Anthropic) live in sub-packages and
// implement Model so higher layers (agents, runner) stay decoupled from
// vendor SDKs and wire formats.
package model
