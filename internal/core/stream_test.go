package core

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStream replays a fixed fragment sequence.
type sliceStream struct {
	frags []string
	pos   int
	err   error
	open  bool
}

func (s *sliceStream) Recv() (string, error) {
	if s.pos >= len(s.frags) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	f := s.frags[s.pos]
	s.pos++
	return f, nil
}

func (s *sliceStream) Close() error {
	s.open = false
	return nil
}

func TestAccumulateEmitsCursorThenFinal(t *testing.T) {
	var updates []string
	final, err := Accumulate(&sliceStream{frags: []string{"Hel", "lo"}}, func(s string) {
		updates = append(updates, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", final)
	assert.Equal(t, []string{"Hel▌", "Hello▌", "Hello"}, updates)
}

func TestAccumulateSkipsEmptyFragments(t *testing.T) {
	var updates []string
	final, err := Accumulate(&sliceStream{frags: []string{"", "a", "", "b", ""}}, func(s string) {
		updates = append(updates, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "ab", final)
	assert.Equal(t, []string{"a▌", "ab▌", "ab"}, updates)
}

func TestAccumulateEmptyStream(t *testing.T) {
	var updates []string
	final, err := Accumulate(&sliceStream{}, func(s string) {
		updates = append(updates, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "", final)
	assert.Equal(t, []string{""}, updates, "final update still fires")
}

func TestAccumulateNilSink(t *testing.T) {
	final, err := Accumulate(&sliceStream{frags: []string{"ok"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", final)
}

func TestAccumulatePropagatesError(t *testing.T) {
	upstream := errors.New("connection reset")
	partial, err := Accumulate(&sliceStream{frags: []string{"par"}, err: upstream}, nil)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, "par", partial)
}
