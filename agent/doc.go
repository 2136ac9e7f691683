// Package agent contains the closed set of agents that collaborate on a
// goal: Manager, Developer (LLM-only), LegacyDeveloper, Planner, Writer and
// Tester.
//
// Every agent satisfies the Agent capability:
//
//	Act(ctx, mem, task) (string, error)
//
// and reports a Kind tag so callers can dispatch explicitly. Agents that
// talk to the generative backend embed BaseAgent, which renders a prompt
// from the agent's name, its Role and a memory snapshot, then
// calls the retrying gateway.
//
// Variant specific operations:
//
//   - Developer executes the first fenced code block of its output and
//     appends "[Execution Result]: <output>".
//   - Planner.Plan turns a goal into ordered core.Task values.
//   - Writer.GenerateDocument drafts Markdown, fills TODO research markers,
//     persists the document and commits it.
//   - Tester.Run runs the configured test command or, when it is not
//     installed, a syntax-only check over changed files.
//   - LegacyDeveloper.ImplementWithRetry wraps an Implementer in
//     stash/test/commit-or-revert attempts.
//
// Agents hold configuration only; run state lives in memory.Memory, which
// the orchestrator passes to every turn.
package agent
