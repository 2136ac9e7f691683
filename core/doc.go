// Package core provides the foundational domain types and collaborator
// contracts shared by agentcrew packages. It defines:
//
//   - Tasks (the planner's unit of work: a code or doc kind plus description)
//   - The error taxonomy used to propagate backend and implementation failures
//   - Contracts for external collaborators (version control, web search,
//     reference and document persistence)
//   - A call limiter bounding generative backend usage per run
//
// The package intentionally keeps implementation concerns (HTTP clients, git,
// file layout) out of scope, exposing small interfaces so that backends can be
// swapped in tests or production.
package core
