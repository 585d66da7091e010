package pixsecret

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// State is the stage an Accumulator has reached.
type State int

const (
	StateEmpty           State = iota // Nothing collected yet.
	StateAwaitingLength               // Some of the 8-byte length prefix has been collected.
	StateAwaitingPayload              // The length is known but the payload is incomplete.
	StateComplete                     // Header and payload are fully collected.
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingLength:
		return "awaiting length"
	case StateAwaitingPayload:
		return "awaiting payload"
	case StateComplete:
		return "complete"
	default:
		return "<unknown>"
	}
}

// Error types

// OverflowError is returned when a byte is pushed into an already complete Accumulator.
type OverflowError struct {
	Expected uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("The secret is already complete at %d bytes; no more bytes are accepted.", e.Expected)
}

// IncompleteError is returned when a secret is read out of an Accumulator that isn't complete yet.
type IncompleteError struct {
	State     State
	Collected int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("The secret is incomplete (%v after %d bytes).", e.State, e.Collected)
}

// UnderflowError is returned when a length prefix is read from fewer than 8 bytes.
type UnderflowError struct {
	Length int
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("A length prefix needs %d bytes, only %d were provided.", streamHeaderSize, e.Length)
}

// Accumulator reconstructs a secret framed as an 8-byte little-endian length followed by the UTF-8 payload,
// from bytes delivered one at a time. It is not safe for concurrent use.
type Accumulator struct {
	state    State
	bytes    []byte
	expected uint64
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AccumulatorFromBytes returns an Accumulator that has already been fed b.
func AccumulatorFromBytes(b []byte) (*Accumulator, error) {
	a := NewAccumulator()
	for _, v := range b {
		if err := a.PushByte(v); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// PushByte appends one byte. Once the secret is complete every further push fails with an OverflowError and
// leaves the Accumulator untouched.
func (a *Accumulator) PushByte(b byte) error {
	if a.state == StateComplete {
		return &OverflowError{Expected: a.expected}
	}

	a.bytes = append(a.bytes, b)

	switch {
	case len(a.bytes) < streamHeaderSize:
		a.state = StateAwaitingLength
		return nil
	case len(a.bytes) == streamHeaderSize:
		a.expected = binary.LittleEndian.Uint64(a.bytes)
		a.state = StateAwaitingPayload
	}

	if uint64(len(a.bytes)-streamHeaderSize) == a.expected {
		a.state = StateComplete
	}
	return nil
}

// Finalize returns the collected secret. It can be called any number of times once the Accumulator is
// complete.
func (a *Accumulator) Finalize() (string, error) {
	if a.state != StateComplete {
		return "", &IncompleteError{State: a.state, Collected: len(a.bytes)}
	}

	payload := a.bytes[streamHeaderSize:]
	if !utf8.Valid(payload) {
		return "", &InvalidSecretError{Length: len(payload)}
	}
	return string(payload), nil
}

// State reports the stage the Accumulator has reached.
func (a *Accumulator) State() State {
	return a.state
}

// IsComplete reports whether the whole secret has been collected.
func (a *Accumulator) IsComplete() bool {
	return a.state == StateComplete
}

// Len returns the number of bytes collected so far, length prefix included.
func (a *Accumulator) Len() int {
	return len(a.bytes)
}

// ExpectedLength returns the payload length announced by the prefix, and whether it is known yet.
func (a *Accumulator) ExpectedLength() (uint64, bool) {
	return a.expected, a.state >= StateAwaitingPayload
}

// ExpectedLength decodes the little-endian payload length at the start of b.
func ExpectedLength(b []byte) (uint64, error) {
	if len(b) < streamHeaderSize {
		return 0, &UnderflowError{Length: len(b)}
	}
	return binary.LittleEndian.Uint64(b[:streamHeaderSize]), nil
}

// FrameSecret prefixes secret with its little-endian length, ready to be fed to a byte-stream carrier.
func FrameSecret(secret string) ([]byte, error) {
	if !utf8.ValidString(secret) {
		return nil, &InvalidFormatError{"The secret is not valid UTF-8."}
	}
	b := make([]byte, streamHeaderSize+len(secret))
	binary.LittleEndian.PutUint64(b, uint64(len(secret)))
	copy(b[streamHeaderSize:], secret)
	return b, nil
}

// ReadSecret feeds bytes from r into an Accumulator until the secret is complete. Bytes after the secret
// are left unread. A stream that ends early yields an InsufficientHidingSpotsError wrapping the
// IncompleteError.
func ReadSecret(r io.ByteReader) (string, error) {
	a := NewAccumulator()
	for !a.IsComplete() {
		b, err := r.ReadByte()
		if err == io.EOF {
			_, ierr := a.Finalize()
			return "", &InsufficientHidingSpotsError{AdditionalInfo: fmt.Sprintf("The stream ended after %d bytes.",
				a.Len()), InnerError: ierr}
		}
		if err != nil {
			return "", err
		}
		if err = a.PushByte(b); err != nil {
			return "", err
		}
	}
	return a.Finalize()
}
