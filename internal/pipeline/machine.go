// Package pipeline orchestrates generation as a visible staged run: a fixed
// step sequence wrapping the compile → complete → decode → assemble →
// enrich → persist work, with per-step progress details. The steps advance
// strictly in order; internally concurrent work (image enrichment) only
// pushes detail lines, it never owns a status transition.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/tmarton/slidegen/internal/i18n"
	"github.com/tmarton/slidegen/internal/model"
)

// Step ids in their fixed run order.
const (
	StepAnalyze   = "analyze"
	StepResearch  = "research"
	StepStructure = "structure"
	StepGenerate  = "generate-content"
	StepEnrich    = "enrich-images"
	StepStyle     = "style"
	StepFinalize  = "finalize"
)

var stepOrder = []string{
	StepAnalyze,
	StepResearch,
	StepStructure,
	StepGenerate,
	StepEnrich,
	StepStyle,
	StepFinalize,
}

// StepError wraps a failure raised while a named step was running.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Machine tracks the step sequence. Snapshots are safe to take while a run
// is in flight; transitions live behind the mutex.
type Machine struct {
	mu      sync.Mutex
	steps   []model.WorkspaceStep
	current int // index of the in-progress step, -1 when none
	failed  bool

	// subscribers get a snapshot after every visible change.
	subs []chan []model.WorkspaceStep
}

// NewMachine creates the fixed step sequence, all pending, labelled through
// the translation table.
func NewMachine(lang string) *Machine {
	m := &Machine{current: -1}
	for _, id := range stepOrder {
		m.steps = append(m.steps, model.WorkspaceStep{
			ID:          id,
			Title:       i18n.T(lang, "step."+id+".title"),
			Description: i18n.T(lang, "step."+id+".desc"),
			Status:      model.StepPending,
		})
	}
	return m
}

// Subscribe returns a channel receiving step snapshots. The channel is
// buffered and updates are dropped, not blocked on, when the reader lags.
func (m *Machine) Subscribe() <-chan []model.WorkspaceStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan []model.WorkspaceStep, 16)
	m.subs = append(m.subs, ch)
	return ch
}

func (m *Machine) notifyLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// slow subscriber, drop
		}
	}
}

func (m *Machine) snapshotLocked() []model.WorkspaceStep {
	out := make([]model.WorkspaceStep, len(m.steps))
	for i, s := range m.steps {
		out[i] = s
		out[i].Details = append([]string(nil), s.Details...)
	}
	return out
}

// Snapshot returns a copy of all steps.
func (m *Machine) Snapshot() []model.WorkspaceStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) index(id string) int {
	for i, s := range m.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Start moves a step to in_progress. It enforces the ordering rule: a step
// can only start when it is the next pending step and nothing has failed.
func (m *Machine) Start(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failed {
		return fmt.Errorf("pipeline already failed, cannot start %s", id)
	}
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("unknown step %s", id)
	}
	if m.current >= 0 {
		return fmt.Errorf("step %s still in progress", m.steps[m.current].ID)
	}
	for j := 0; j < i; j++ {
		if m.steps[j].Status != model.StepCompleted {
			return fmt.Errorf("step %s cannot start before %s completes", id, m.steps[j].ID)
		}
	}
	if m.steps[i].Status != model.StepPending {
		return fmt.Errorf("step %s is %s, not pending", id, m.steps[i].Status)
	}

	m.steps[i].Status = model.StepInProgress
	m.current = i
	m.notifyLocked()
	return nil
}

// Detail appends a progress line to the in-progress step.
func (m *Machine) Detail(id, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 || m.steps[i].Status != model.StepInProgress {
		return
	}
	m.steps[i].Details = append(m.steps[i].Details, fmt.Sprintf(format, args...))
	m.notifyLocked()
}

// Complete finishes the in-progress step.
func (m *Machine) Complete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 || m.steps[i].Status != model.StepInProgress {
		return
	}
	m.steps[i].Status = model.StepCompleted
	m.current = -1
	m.notifyLocked()
}

// Fail marks the step as errored and halts the run; later steps stay
// pending and are reported as not attempted.
func (m *Machine) Fail(id string, err error) *StepError {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i >= 0 {
		m.steps[i].Status = model.StepError
		m.steps[i].Details = append(m.steps[i].Details, err.Error())
	}
	m.failed = true
	m.current = -1
	m.notifyLocked()
	return &StepError{Step: id, Err: err}
}

// Succeeded reports whether every step completed.
func (m *Machine) Succeeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps {
		if s.Status != model.StepCompleted {
			return false
		}
	}
	return true
}

// Failed reports whether the run halted on an error.
func (m *Machine) Failed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed
}

// FailedStep returns the id of the errored step, if any.
func (m *Machine) FailedStep() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps {
		if s.Status == model.StepError {
			return s.ID
		}
	}
	return ""
}
