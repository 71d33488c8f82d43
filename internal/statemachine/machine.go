package statemachine

import (
	"time"

	"reactor/internal/coreerr"
	"reactor/internal/value"
)

const (
	defaultMaxSteps      = 1000
	defaultMaxDurationMs = 60000
)

// StateNode is a labelled context object. Label is set from the key it
// was registered under. Nodes are shared by pointer and their fields are
// exported, so nothing prevents a holder from modifying them after
// AddState.
type StateNode struct {
	Label   string
	Context map[string]any
}

// CurrentNext is the value a StateMachine publishes: the state it is
// presently in, and — while a transition is underway — the state it is
// moving to.
type CurrentNext struct {
	Current *StateNode
	Next    *StateNode
}

// StepInput is passed to a Transition's Step function on every iteration
// of the transition loop.
type StepInput struct {
	To          *StateNode
	From        *StateNode
	StepsBefore int
	StartedAt   time.Time
	ElapsedMs   int64
}

// StepResult is returned by Step. Done ends the transition loop
// successfully.
type StepResult struct {
	Done bool
}

// Transition describes a bounded, optionally cancellable procedure that
// drives the machine from one state to another.
type Transition struct {
	Step          func(in StepInput) (StepResult, error)
	Cancel        func(to, from *StateNode) error
	OnStart       func(to, from *StateNode)
	OnEnded       func(to, from *StateNode, err error)
	MaxSteps      int
	MaxDurationMs int64
}

func (t *Transition) maxSteps() int {
	if t.MaxSteps <= 0 {
		return defaultMaxSteps
	}
	return t.MaxSteps
}

func (t *Transition) maxDurationMs() int64 {
	if t.MaxDurationMs <= 0 {
		return defaultMaxDurationMs
	}
	return t.MaxDurationMs
}

// TransitionOptions configures AddTransition. Exactly one of Transition or
// DelayMs may be set; DelayMs produces a synthetic single-step transition
// that simply waits out the delay.
type TransitionOptions struct {
	Transition *Transition
	DelayMs    *int64
	OnStart    func(to, from *StateNode)
	OnEnded    func(to, from *StateNode, err error)
}

type edgeKey struct{ from, to string }

// StateMachine is an Observable[CurrentNext] plus a labelled state table
// and a from->to transition table.
type StateMachine struct {
	*value.Observable[CurrentNext]

	states      map[string]*StateNode
	transitions map[edgeKey]*Transition

	runningFrom       *StateNode
	runningTo         *StateNode
	runningTransition *Transition
}

// New constructs an empty StateMachine whose initial value is
// {Current: nil, Next: nil}.
func New(subsystem string) *StateMachine {
	m := &StateMachine{
		Observable:  value.NewWithValue[CurrentNext](subsystem, CurrentNext{}),
		states:      make(map[string]*StateNode),
		transitions: make(map[edgeKey]*Transition),
	}
	return m
}

// AddState registers label with the given context. Fails with
// ErrAlreadyRegistered unless overwrite is true.
func (m *StateMachine) AddState(label string, context map[string]any, overwrite bool) error {
	if label == "" {
		return coreerr.ErrInvalidArgument
	}
	if _, exists := m.states[label]; exists && !overwrite {
		return coreerr.ErrAlreadyRegistered
	}
	m.states[label] = &StateNode{Label: label, Context: context}
	return nil
}

// AddTransition registers a transition from `from` to `to`. Both labels
// must already exist via AddState.
func (m *StateMachine) AddTransition(from, to string, opts TransitionOptions) error {
	if from == "" || to == "" {
		return coreerr.ErrInvalidArgument
	}
	if _, ok := m.states[from]; !ok {
		return coreerr.ErrNotFound
	}
	if _, ok := m.states[to]; !ok {
		return coreerr.ErrNotFound
	}
	if opts.Transition != nil && opts.DelayMs != nil {
		return coreerr.ErrInvalidArgument
	}

	var tr *Transition
	switch {
	case opts.DelayMs != nil:
		delay := time.Duration(*opts.DelayMs) * time.Millisecond
		tr = &Transition{
			Step: func(in StepInput) (StepResult, error) {
				time.Sleep(delay)
				return StepResult{Done: true}, nil
			},
		}
	case opts.Transition != nil:
		cp := *opts.Transition
		tr = &cp
	default:
		return coreerr.ErrInvalidArgument
	}
	tr.OnStart = opts.OnStart
	tr.OnEnded = opts.OnEnded

	m.transitions[edgeKey{from, to}] = tr
	return nil
}

// JumpTo atomically sets {Current: stateAt(label), Next: nil} without
// running any transition.
func (m *StateMachine) JumpTo(label string) error {
	node, ok := m.states[label]
	if !ok {
		return coreerr.ErrNotFound
	}
	m.Observable.Set(CurrentNext{Current: node})
	return nil
}

// CurrentLabel returns the label of the current state, or "" if unset.
func (m *StateMachine) CurrentLabel() string {
	cn, ok := m.Observable.Get()
	if !ok || cn.Current == nil {
		return ""
	}
	return cn.Current.Label
}

// GotoState drives the machine from its current state to label, running
// the registered transition's step loop. It is a no-op if already at
// label. If no transition is registered for the current->label edge, it
// behaves like JumpTo. On failure it attempts to cancel and returns a
// *coreerr.TransitionFailedError.
func (m *StateMachine) GotoState(label string) error {
	to, ok := m.states[label]
	if !ok {
		return coreerr.ErrNotFound
	}

	cn, _ := m.Observable.Get()
	from := cn.Current
	if from != nil && from.Label == label {
		return nil
	}

	var fromLabel string
	if from != nil {
		fromLabel = from.Label
	}

	tr, hasTransition := m.transitions[edgeKey{fromLabel, label}]
	if !hasTransition {
		return m.JumpTo(label)
	}

	m.runningFrom = from
	m.runningTo = to
	m.runningTransition = tr

	m.Observable.Set(CurrentNext{Current: from, Next: to})

	if tr.OnStart != nil {
		tr.OnStart(to, from)
	}

	err := m.runLoop(tr, from, to)

	if err != nil {
		cancelErr := m.runCancel(tr, from, to)
		failure := &coreerr.TransitionFailedError{From: fromLabel, To: label, Cause: err, CancelErr: cancelErr}
		if tr.OnEnded != nil {
			tr.OnEnded(to, from, failure)
		}
		m.clearRunning()
		m.Observable.Set(CurrentNext{Current: from, Next: nil})
		return failure
	}

	if tr.OnEnded != nil {
		tr.OnEnded(to, from, nil)
	}
	m.clearRunning()
	m.Observable.Set(CurrentNext{Current: to, Next: nil})
	return nil
}

func (m *StateMachine) runLoop(tr *Transition, from, to *StateNode) error {
	startedAt := time.Now()
	stepsBefore := 0
	maxSteps := tr.maxSteps()
	maxDuration := tr.maxDurationMs()

	for {
		elapsed := time.Since(startedAt).Milliseconds()
		result, err := tr.Step(StepInput{
			To:          to,
			From:        from,
			StepsBefore: stepsBefore,
			StartedAt:   startedAt,
			ElapsedMs:   elapsed,
		})
		if err != nil {
			return err
		}
		if result.Done {
			return nil
		}
		stepsBefore++
		elapsed = time.Since(startedAt).Milliseconds()
		if stepsBefore >= maxSteps || elapsed >= maxDuration {
			return coreerr.ErrTransitionBudgetExceeded
		}
	}
}

func (m *StateMachine) runCancel(tr *Transition, from, to *StateNode) error {
	if tr.Cancel == nil {
		return nil
	}
	return tr.Cancel(to, from)
}

func (m *StateMachine) clearRunning() {
	m.runningFrom = nil
	m.runningTo = nil
	m.runningTransition = nil
}

// CancelCurrentTransition cancels the transition presently in flight, if
// any. It is a no-op if Next is unset. On cancel failure it returns a
// *coreerr.TransitionFailedError whose Cause is the cancel failure; no
// step error is attached (a failed step is handled by GotoState, which
// reports the step error and the cancel error together).
func (m *StateMachine) CancelCurrentTransition() error {
	cn, _ := m.Observable.Get()
	if cn.Next == nil {
		return nil
	}

	from, to, tr := m.runningFrom, m.runningTo, m.runningTransition
	cancelErr := m.runCancel(tr, from, to)
	m.clearRunning()
	m.Observable.Set(CurrentNext{Current: from, Next: nil})
	if cancelErr != nil {
		var fromLabel, toLabel string
		if from != nil {
			fromLabel = from.Label
		}
		if to != nil {
			toLabel = to.Label
		}
		return &coreerr.TransitionFailedError{From: fromLabel, To: toLabel, Cause: cancelErr}
	}
	return nil
}
