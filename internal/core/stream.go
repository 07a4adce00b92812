package core

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/AnesSym/medical-test/internal/llm"
)

// CursorMarker is appended to every intermediate buffer snapshot to give
// the display the look of live typing.
const CursorMarker = "▌"

// Accumulate drains the fragment stream into a single buffer. For each
// non-empty fragment the growing buffer plus the cursor marker is handed
// to onUpdate; once the stream is exhausted onUpdate receives the bare
// buffer one final time and the buffer is returned.
//
// The stream is pulled cooperatively on the caller's goroutine and always
// drained to the end; there is no cancellation or timeout here beyond the
// context attached to the stream itself.
func Accumulate(stream llm.FragmentStream, onUpdate func(string)) (string, error) {
	var buf strings.Builder
	for {
		frag, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return buf.String(), err
		}
		if frag == "" {
			continue
		}
		buf.WriteString(frag)
		if onUpdate != nil {
			onUpdate(buf.String() + CursorMarker)
		}
	}
	if onUpdate != nil {
		onUpdate(buf.String())
	}
	return buf.String(), nil
}
