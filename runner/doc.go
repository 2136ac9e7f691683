// Package runner drives agents through one orchestration run.
//
// Two control loops are provided:
//
//   - Linear: Planner produces [Code]/[Doc] tasks; each code task goes to
//     the legacy developer's ImplementWithRetry and each doc task to the
//     writer's GenerateDocument. An empty plan ends the run as
//     StatusNothingToDo. A failed code task halts the run immediately; a
//     failed document is recorded and the loop continues. Already committed
//     tasks are never rolled back.
//   - Review: exactly three turns (manager plan, developer execution,
//     manager review) with no branching or retries.
//
// Both loops record every agent turn in a fresh memory.Memory and compact it
// right after, so later turns never see unbounded context. State
// transitions (Planning, Dispatching, Implementing, Documenting, Done,
// Failed) are logged and reported to an optional Observer.
package runner
