package memory

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxDecisions is the number of recent decisions kept by Trim.
	DefaultMaxDecisions = 5
	// DefaultMaxTokens is the plan token budget enforced by Trim.
	DefaultMaxTokens = 1500
	// PlanUpdateMarker introduces a replacement plan in planner output.
	PlanUpdateMarker = "PLAN UPDATE:"
	// SnapshotDecisions is the number of recent decisions rendered into prompts.
	SnapshotDecisions = 5

	summaryLimit = 100
	// earlierLimit bounds the folded "Earlier:" entry, which keeps its newest text.
	earlierLimit = 2 * summaryLimit
	ellipsis     = "..."
)

// Options configure a Memory.
type Options struct {
	// DeveloperName is the agent whose output is summarized by failure markers.
	DeveloperName string
	// PlannerName is the only agent allowed to replace the plan.
	PlannerName string
	// Tokenizer measures the plan during Trim. Defaults to CharTokenizer.
	Tokenizer Tokenizer
}

// Memory is the shared state of one orchestration run.
type Memory struct {
	Plan             string
	LastActionResult string
	Decisions        []string

	opts Options
}

// New creates a Memory seeded with initialPlan.
func New(initialPlan string, optFns ...func(o *Options)) *Memory {
	opts := Options{
		DeveloperName: "DevAgent",
		PlannerName:   "ManagerAgent",
		Tokenizer:     CharTokenizer{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = CharTokenizer{}
	}
	return &Memory{Plan: initialPlan, opts: opts}
}

// UpdateFromAgent records one agent turn: it summarizes output, stores the
// summary as the last result, appends "<agentName>: <summary>" to the
// decision log and applies a plan update when the planner emitted one.
func (m *Memory) UpdateFromAgent(agentName, output string) {
	summary := m.summarize(agentName, output)
	m.LastActionResult = summary
	m.Decisions = append(m.Decisions, agentName+": "+summary)

	if agentName == m.opts.PlannerName {
		if idx := strings.LastIndex(output, PlanUpdateMarker); idx >= 0 {
			m.Plan = strings.TrimSpace(output[idx+len(PlanUpdateMarker):])
		}
	}
}

func (m *Memory) summarize(agentName, output string) string {
	if agentName == m.opts.DeveloperName {
		if strings.Contains(output, "Error") || strings.Contains(output, "Exception") {
			first, _, _ := strings.Cut(output, "\n")
			return fmt.Sprintf("%s error: %s", agentName, strings.TrimRight(first, "\r"))
		}
		return agentName + " completed code execution successfully."
	}

	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return truncateRunes(output, summaryLimit)
	}
	lines := strings.Split(trimmed, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if utf8.RuneCountInString(last) > summaryLimit {
		return truncateRunes(last, summaryLimit) + ellipsis
	}
	return last
}

// Trim compacts the memory so that at most maxDecisions entries remain, the
// oldest folded into a single "Earlier:" entry of bounded length, and the
// plan measures at most maxTokens. Trim is idempotent once both bounds hold.
// Non-positive arguments fall back to the defaults.
func (m *Memory) Trim(maxDecisions, maxTokens int) {
	if maxDecisions <= 0 {
		maxDecisions = DefaultMaxDecisions
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	if len(m.Decisions) > maxDecisions {
		// The "Earlier:" entry occupies one of the maxDecisions slots.
		keep := maxDecisions - 1
		older := m.Decisions[:len(m.Decisions)-keep]
		parts := make([]string, len(older))
		for i, d := range older {
			parts[i] = summaryOf(d)
		}
		kept := make([]string, 0, maxDecisions)
		kept = append(kept, "Earlier: "+lastRunes(strings.Join(parts, "; "), earlierLimit))
		kept = append(kept, m.Decisions[len(m.Decisions)-keep:]...)
		m.Decisions = kept
	}

	for m.Plan != "" && m.opts.Tokenizer.Count(m.Plan) > maxTokens {
		runes := []rune(m.Plan)
		n := len(runes) * 8 / 10
		if n+len(ellipsis) < len(runes) {
			m.Plan = string(runes[:n]) + ellipsis
		} else {
			// Short plans shrink without the marker so the loop always terminates.
			m.Plan = string(runes[:n])
		}
	}
}

func summaryOf(decision string) string {
	if _, after, ok := strings.Cut(decision, ": "); ok {
		return after
	}
	return decision
}

// RecentDecisions returns up to n of the most recent decisions.
func (m *Memory) RecentDecisions(n int) []string {
	if n <= 0 || len(m.Decisions) == 0 {
		return nil
	}
	start := len(m.Decisions) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(m.Decisions)-start)
	copy(out, m.Decisions[start:])
	return out
}

// Snapshot renders the shared-context block embedded in agent prompts.
func (m *Memory) Snapshot() string {
	var b strings.Builder
	b.WriteString("The agents share the following context:\n")
	fmt.Fprintf(&b, "- Ongoing Plan: %s\n", m.Plan)
	fmt.Fprintf(&b, "- Last Result: %s\n", m.LastActionResult)
	b.WriteString("- Recent Decisions:\n")
	for _, d := range m.RecentDecisions(SnapshotDecisions) {
		fmt.Fprintf(&b, "  * %s\n", d)
	}
	b.WriteString("\n")
	return b.String()
}

// lastRunes keeps the final n runes of s, marking the cut with a leading ellipsis.
func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return ellipsis + string(runes[len(runes)-n:])
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
