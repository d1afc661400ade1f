package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidToken = errors.New("invalid transaction token")

// Token identifies a snapshot pushed on a TxStack.
type Token int

// TxStack keeps snapshots of a robot configuration so a series of moves can
// be tried and rolled back. Snapshots are full copies; a Robots value is a
// few dozen bytes.
type TxStack struct {
	current *Robots
	frames  []Robots
}

// NewTxStack wraps current. All operations act on the pointed-to value.
func NewTxStack(current *Robots) *TxStack {
	return &TxStack{current: current}
}

// Current returns the live configuration.
func (t *TxStack) Current() *Robots {
	return t.current
}

// Depth returns the number of snapshots on the stack.
func (t *TxStack) Depth() int {
	return len(t.frames)
}

// Push snapshots the current configuration and returns its token.
func (t *TxStack) Push() Token {
	t.frames = append(t.frames, *t.current)
	return Token(len(t.frames) - 1)
}

// Restore loads the snapshot tok without popping anything.
func (t *TxStack) Restore(tok Token) error {
	if tok < 0 || int(tok) >= len(t.frames) {
		return fmt.Errorf("restore %d (depth %d): %w", tok, len(t.frames), ErrInvalidToken)
	}
	*t.current = t.frames[tok]
	return nil
}

// Pop discards the top snapshot, loading it first when load is set. It
// reports false on an empty stack.
func (t *TxStack) Pop(load bool) bool {
	if len(t.frames) == 0 {
		return false
	}
	top := len(t.frames) - 1
	if load {
		*t.current = t.frames[top]
	}
	t.frames = t.frames[:top]
	return true
}

// PopAll rolls back to the oldest snapshot and empties the stack. It reports
// false when there was nothing to roll back to.
func (t *TxStack) PopAll() bool {
	if len(t.frames) == 0 {
		return false
	}
	*t.current = t.frames[0]
	t.frames = t.frames[:0]
	return true
}

// Apply commits the current configuration by dropping every snapshot.
func (t *TxStack) Apply() {
	t.frames = t.frames[:0]
}
