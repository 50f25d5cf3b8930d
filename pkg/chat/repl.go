package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/musaed-ai/musaed/pkg/models"
)

// Recorder receives every answered question. A nil Recorder is allowed.
type Recorder interface {
	Record(ctx context.Context, channel string, ans models.Answer)
}

// REPL reads one question per line from r and writes rendered answers to w.
// It returns when r is exhausted or ctx is cancelled, even while a read is
// blocked.
func REPL(ctx context.Context, a Asker, rec Recorder, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprint(w, "> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			ans, err := Ask(a, line)
			switch {
			case errors.Is(err, ErrEmptyQuestion):
				fmt.Fprintln(w, PromptEnterQuestion)
			default:
				if rec != nil {
					rec.Record(ctx, "cli", ans)
				}
				fmt.Fprint(w, Render(ans))
			}
			fmt.Fprint(w, "> ")
		}
	}
}
