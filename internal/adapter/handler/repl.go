package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

const maxLineSize = 1024 * 1024

// Loop reads commands line by line from r until EOF or context
// cancellation, writing each non-empty response to w.
func (h *CommandHandler) Loop(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp := h.Handle(ctx, scanner.Text())
		if resp == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}
