// Package model defines the provider‑agnostic LLM client collaborator used by
// the orchestrator together with concrete helpers for tests.
//
// Core goals:
//   - A single stateless request/response call (Client.Request)
//   - Normalized content blocks (text, tool use, tool result) from package core
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (MockClient)
//
// Providers (Anthropic, OpenAI, langchaingo backends) implement Client in
// sub-packages so the orchestrator remains decoupled from vendor SDKs.
package model
