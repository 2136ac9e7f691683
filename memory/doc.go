// Package memory holds the shared, size-bounded state that agents exchange
// during one orchestration run.
//
// A Memory carries three things:
//
//  1. Plan: the current working plan, replaced only when the planning agent
//     emits a "PLAN UPDATE:" marker.
//  2. LastActionResult: a one line summary of the most recent agent output.
//  3. Decisions: an append-only log of "<agent>: <summary>" entries.
//
// Every agent turn is recorded with UpdateFromAgent and then compacted with
// Trim. Trim is lossy and one-directional: older decisions collapse into a
// single "Earlier: ..." entry and an oversized plan is truncated until its
// measured length fits the token budget. Length is measured by a pluggable
// Tokenizer; TiktokenTokenizer gives exact BPE counts and CharTokenizer is the
// fallback.
//
// A Memory is owned by exactly one run and is not safe for concurrent use.
package memory
