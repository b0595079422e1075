// Package history implements the reversible edit engine: a two-stack
// undo/redo command stack shared by every surface of an editing session,
// plus the standard element commands drawing flows push through it.
package history

import (
	"fmt"
	"log"
	"sync"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// Op tags what the stack just did, for observers.
type Op string

const (
	OpExecute Op = "execute"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
)

// Observer is notified after every successful state change. The session
// uses it to journal history and push events to the frontend.
type Observer func(op Op, cmd domain.Command)

// CommandStack is the undo/redo engine. One instance exists per editing
// session, not per surface, so an undo may revert a mutation on a surface
// other than the one currently visible.
type CommandStack struct {
	mu       sync.Mutex
	undo     []domain.Command
	redo     []domain.Command
	observer Observer
}

// NewCommandStack creates an empty stack.
func NewCommandStack() *CommandStack {
	return &CommandStack{}
}

// SetObserver installs the post-change observer. Pass nil to remove it.
func (s *CommandStack) SetObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// Execute runs the command and pushes it onto the undo stack. Any pending
// redo history is invalidated: redo only ever replays a straight line.
func (s *CommandStack) Execute(cmd domain.Command) error {
	if cmd == nil {
		return fmt.Errorf("execute command: nil command")
	}
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("execute command %q: %w", cmd.Label(), err)
	}

	s.mu.Lock()
	s.undo = append(s.undo, cmd)
	s.redo = nil
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(OpExecute, cmd)
	}
	return nil
}

// Undo reverts the most recent command. An empty stack is a logged no-op.
func (s *CommandStack) Undo() error {
	s.mu.Lock()
	if len(s.undo) == 0 {
		s.mu.Unlock()
		log.Println("history: undo requested on empty stack")
		return nil
	}
	cmd := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.mu.Unlock()

	if err := cmd.Undo(); err != nil {
		// Leave the command where it was so the user can retry.
		s.mu.Lock()
		s.undo = append(s.undo, cmd)
		s.mu.Unlock()
		return fmt.Errorf("undo command %q: %w", cmd.Label(), err)
	}

	s.mu.Lock()
	s.redo = append(s.redo, cmd)
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(OpUndo, cmd)
	}
	return nil
}

// Redo replays the most recently undone command. An empty stack is a
// logged no-op.
func (s *CommandStack) Redo() error {
	s.mu.Lock()
	if len(s.redo) == 0 {
		s.mu.Unlock()
		log.Println("history: redo requested on empty stack")
		return nil
	}
	cmd := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.mu.Unlock()

	if err := cmd.Execute(); err != nil {
		s.mu.Lock()
		s.redo = append(s.redo, cmd)
		s.mu.Unlock()
		return fmt.Errorf("redo command %q: %w", cmd.Label(), err)
	}

	s.mu.Lock()
	s.undo = append(s.undo, cmd)
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(OpRedo, cmd)
	}
	return nil
}

// CanUndo reports whether the undo stack is non-empty.
func (s *CommandStack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (s *CommandStack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Sizes returns the undo and redo stack depths.
func (s *CommandStack) Sizes() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}

// Clear drops both stacks. Called when a session rebuilds its surfaces;
// retained commands would otherwise point at destroyed layers.
func (s *CommandStack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}
