// Package algos provides the addressors used to walk a carrier's pixels.
package algos

// Addressor hands out carrier addresses one at a time, returning an EmptyPoolError once none are left.
type Addressor func() (int64, error)

// Error types

// EmptyPoolError is thrown when an addressor is called but its pool of available addresses is empty.
type EmptyPoolError struct {
	// Consumed is the number of addresses handed out before the pool ran dry.
	Consumed int64
}

func (e *EmptyPoolError) Error() string {
	return "The pool of pixel addresses is empty."
}

// Addressor closures

// Sequential returns an addressor that works sequentially, from 0 to max - 1.
func Sequential(max int64) Addressor {
	pos := int64(-1)
	return func() (int64, error) {
		if pos+1 >= max {
			return -1, &EmptyPoolError{Consumed: pos + 1}
		}
		pos++
		return pos, nil
	}
}
