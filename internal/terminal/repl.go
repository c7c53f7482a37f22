package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"mentor-backend/internal/session"
)

const (
	welcome  = "Welcome to Mentor AI! Ask me a computer science question, or type 'quit' to exit."
	prompt   = "You: "
	goodbye  = "Goodbye!"
	errorFmt = "An error occurred: %v\n"

	// SessionKey is the caller key used for the single terminal dialogue.
	SessionKey = "terminal"
)

type exchanger interface {
	Exchange(ctx context.Context, callerKey, message string) session.Result
}

// Run reads one message per line from in until quit, exit or EOF, printing
// the mentor's replies to out. Every line shares one conversation.
func Run(ctx context.Context, sessions exchanger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(out, welcome)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		if isQuit(line) {
			fmt.Fprintln(out, goodbye)
			return nil
		}

		res := sessions.Exchange(ctx, SessionKey, line)
		if !res.OK() {
			fmt.Fprintf(out, errorFmt, res.Err)
			continue
		}
		fmt.Fprintf(out, "Mentor AI: %s\n", res.Reply)
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	}
	return false
}
