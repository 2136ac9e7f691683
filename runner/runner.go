package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

// State is a control loop state.
type State string

const (
	StatePlanning     State = "planning"
	StateDispatching  State = "dispatching"
	StateImplementing State = "implementing"
	StateDocumenting  State = "documenting"
	StateReviewing    State = "reviewing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Status is the outcome of a run.
type Status string

const (
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusNothingToDo Status = "nothing_to_do"
)

// EventType classifies observer events.
type EventType string

const (
	EventStateChanged  EventType = "state_changed"
	EventPlanned       EventType = "planned"
	EventTaskStarted   EventType = "task_started"
	EventTaskSucceeded EventType = "task_succeeded"
	EventTaskFailed    EventType = "task_failed"
	EventTurn          EventType = "turn"
)

// Event is reported to the Observer while a run progresses.
type Event struct {
	Type  EventType
	RunID string
	State State
	// Task is set for task events.
	Task core.Task
	// Tasks is set for EventPlanned.
	Tasks []core.Task
	// Agent and Output are set for EventTurn.
	Agent  string
	Output string
	Err    error
}

// Observer receives run events synchronously.
type Observer func(Event)

// TaskFailure records a task that failed without halting the run.
type TaskFailure struct {
	Task core.Task
	Err  error
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Status      Status
	Tasks       []core.Task
	Completed   []core.Task
	Failures    []TaskFailure
	Transitions []State
	// Output is the final user-facing response of the review loop.
	Output string
	Memory *memory.Memory

	err error
}

// Err returns the run's terminal error: the halting failure, core.ErrNoTasks
// for an empty plan, or nil.
func (r *Result) Err() error {
	if r.Status == StatusNothingToDo {
		return core.ErrNoTasks
	}
	return r.err
}

// Options configure a control loop.
type Options struct {
	MaxDecisions int
	MaxTokens    int
	Tokenizer    memory.Tokenizer
	// DeveloperName and PlannerName select memory's summary and plan update rules.
	DeveloperName string
	PlannerName   string
	Observer      Observer
	Logger        logging.Logger
	NewRunID      func() string
}

func defaultOptions() Options {
	return Options{
		MaxDecisions:  memory.DefaultMaxDecisions,
		MaxTokens:     memory.DefaultMaxTokens,
		Tokenizer:     memory.CharTokenizer{},
		DeveloperName: agent.DeveloperName,
		PlannerName:   agent.ManagerName,
		Logger:        logging.NoOpLogger{},
		NewRunID:      uuid.NewString,
	}
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	return opts
}

// run carries the state of one orchestration run.
type run struct {
	id     string
	opts   Options
	logger logging.Logger
	mem    *memory.Memory
	result *Result
	state  State
	since  time.Time
}

func newRun(opts Options) *run {
	id := opts.NewRunID()
	logger := opts.Logger
	if cl, ok := logger.(*logging.CrewLogger); ok {
		logger = cl.WithRun(id).WithComponent("runner")
	}
	mem := memory.New("", func(o *memory.Options) {
		o.Tokenizer = opts.Tokenizer
		o.DeveloperName = opts.DeveloperName
		o.PlannerName = opts.PlannerName
	})
	return &run{
		id:     id,
		opts:   opts,
		logger: logger,
		mem:    mem,
		result: &Result{RunID: id, Memory: mem},
		since:  time.Now(),
	}
}

func (r *run) transition(to State) {
	if l, ok := r.logger.(interface {
		LogStep(string, string, time.Duration, bool, error)
	}); ok && r.state != "" {
		l.LogStep(string(r.state), "", time.Since(r.since), to != StateFailed, nil)
	}
	r.logger.Info("state transition", "from", string(r.state), "to", string(to))
	r.state = to
	r.since = time.Now()
	r.result.Transitions = append(r.result.Transitions, to)
	r.emit(Event{Type: EventStateChanged})
}

func (r *run) emit(ev Event) {
	if r.opts.Observer == nil {
		return
	}
	ev.RunID = r.id
	ev.State = r.state
	r.opts.Observer(ev)
}

// record stores one agent turn in memory and compacts it.
func (r *run) record(agentName, output string) {
	r.mem.UpdateFromAgent(agentName, output)
	r.mem.Trim(r.opts.MaxDecisions, r.opts.MaxTokens)
}

func (r *run) fail(err error) (*Result, error) {
	r.transition(StateFailed)
	r.result.Status = StatusFailed
	r.result.err = err
	r.logger.Error("run failed", "error", err)
	return r.result, err
}

func (r *run) done(status Status) *Result {
	r.transition(StateDone)
	r.result.Status = status
	return r.result
}
