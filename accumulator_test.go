package pixsecret_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedseven/pixsecret"
)

func pushAll(t *testing.T, a *pixsecret.Accumulator, b []byte) {
	t.Helper()
	for _, v := range b {
		require.NoError(t, a.PushByte(v))
	}
}

func TestAccumulatorStates(t *testing.T) {
	a := pixsecret.NewAccumulator()
	assert.Equal(t, pixsecret.StateEmpty, a.State())

	framed, err := pixsecret.FrameSecret("foo")
	require.NoError(t, err)

	for i, v := range framed {
		prev := a.Len()
		require.NoError(t, a.PushByte(v))
		assert.Equal(t, prev+1, a.Len())

		switch {
		case i < 7:
			assert.Equal(t, pixsecret.StateAwaitingLength, a.State())
			_, known := a.ExpectedLength()
			assert.False(t, known)
		case i < len(framed)-1:
			assert.Equal(t, pixsecret.StateAwaitingPayload, a.State())
			l, known := a.ExpectedLength()
			assert.True(t, known)
			assert.Equal(t, uint64(3), l)
		default:
			assert.Equal(t, pixsecret.StateComplete, a.State())
		}
	}

	s, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "foo", s)

	// repeatable
	s, err = a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
}

func TestAccumulatorOverflow(t *testing.T) {
	a := pixsecret.NewAccumulator()
	framed, _ := pixsecret.FrameSecret("hi")
	pushAll(t, a, framed)

	err := a.PushByte('!')
	var overflow *pixsecret.OverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, uint64(2), overflow.Expected)
	assert.Equal(t, len(framed), a.Len())
	assert.True(t, a.IsComplete())

	s, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestAccumulatorEmptySecretCompletesOnHeader(t *testing.T) {
	a := pixsecret.NewAccumulator()
	pushAll(t, a, make([]byte, 8))
	assert.True(t, a.IsComplete())

	s, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestAccumulatorIncomplete(t *testing.T) {
	a := pixsecret.NewAccumulator()
	_, err := a.Finalize()
	var incomplete *pixsecret.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, pixsecret.StateEmpty, incomplete.State)

	framed, _ := pixsecret.FrameSecret("secret")
	pushAll(t, a, framed[:10])
	_, err = a.Finalize()
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, pixsecret.StateAwaitingPayload, incomplete.State)
	assert.Equal(t, 10, incomplete.Collected)

	// still usable
	pushAll(t, a, framed[10:])
	s, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "secret", s)
}

func TestAccumulatorInvalidUTF8(t *testing.T) {
	a, err := pixsecret.AccumulatorFromBytes([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0xC3, 0x28})
	require.NoError(t, err)
	require.True(t, a.IsComplete())

	_, err = a.Finalize()
	assert.IsType(t, &pixsecret.InvalidSecretError{}, err)
}

func TestAccumulatorFromBytes(t *testing.T) {
	framed, _ := pixsecret.FrameSecret("héllo")

	a, err := pixsecret.AccumulatorFromBytes(framed[:5])
	require.NoError(t, err)
	assert.Equal(t, pixsecret.StateAwaitingLength, a.State())

	a, err = pixsecret.AccumulatorFromBytes(framed)
	require.NoError(t, err)
	assert.True(t, a.IsComplete())

	_, err = pixsecret.AccumulatorFromBytes(append(framed, 'x'))
	assert.IsType(t, &pixsecret.OverflowError{}, err)
}

func TestExpectedLength(t *testing.T) {
	l, err := pixsecret.ExpectedLength([]byte{3, 0, 0, 0, 0, 0, 0, 0, 0xAA})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), l)

	l, err = pixsecret.ExpectedLength([]byte{0, 0, 0, 0, 0, 0, 0, 0x80})
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, l)

	_, err = pixsecret.ExpectedLength([]byte{3, 0, 0})
	var underflow *pixsecret.UnderflowError
	require.True(t, errors.As(err, &underflow))
	assert.Equal(t, 3, underflow.Length)
}

func TestFrameSecret(t *testing.T) {
	b, err := pixsecret.FrameSecret("foo")
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0, 'f', 'o', 'o'}, b)

	_, err = pixsecret.FrameSecret("\xff")
	assert.IsType(t, &pixsecret.InvalidFormatError{}, err)
}

func TestReadSecret(t *testing.T) {
	framed, _ := pixsecret.FrameSecret("stream me")
	r := bufio.NewReader(bytes.NewReader(append(framed, "trailing carrier noise"...)))

	s, err := pixsecret.ReadSecret(r)
	require.NoError(t, err)
	assert.Equal(t, "stream me", s)

	rest, _ := r.ReadString(0)
	assert.Equal(t, "trailing carrier noise", rest)
}

func TestReadSecretShortStream(t *testing.T) {
	framed, _ := pixsecret.FrameSecret(strings.Repeat("z", 20))

	_, err := pixsecret.ReadSecret(bytes.NewReader(framed[:15]))
	var hiding *pixsecret.InsufficientHidingSpotsError
	require.True(t, errors.As(err, &hiding))
	var incomplete *pixsecret.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 15, incomplete.Collected)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting payload", pixsecret.StateAwaitingPayload.String())
	assert.Equal(t, "<unknown>", pixsecret.State(42).String())
}
