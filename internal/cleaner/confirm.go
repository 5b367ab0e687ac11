package cleaner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Confirm reads one line from in and reports whether it is "yes", compared
// case-insensitively. End of input and context cancellation (the interrupt
// signal) count as a refusal.
func Confirm(ctx context.Context, in io.Reader) (bool, error) {
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, nil
	case a := <-ch:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, a.err
		}
		return strings.EqualFold(strings.TrimRight(a.line, "\r\n"), "yes"), nil
	}
}
