package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"mentor-backend/internal/app"
	"mentor-backend/internal/config"
	"mentor-backend/internal/logging"
	"mentor-backend/internal/terminal"
)

// Run parses args and executes the selected command, returning the exit code.
func Run(args []string, in io.Reader, out io.Writer) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(out, err)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if opts.Chat == nil {
		opts.Chat = &ChatCmd{}
	}

	cfg := config.Load()
	// Logs go to stderr at warn so they do not interleave with the dialogue.
	logging.Setup(cfg.Env, "warn")
	opts.Chat.apply(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mentor, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Initialization failed")
		fmt.Fprintf(os.Stderr, "mentor: %v\n", err)
		return 1
	}
	defer mentor.Close()

	if err := terminal.Run(ctx, mentor.Sessions, in, out); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "mentor: %v\n", err)
		return 1
	}
	return 0
}

// apply layers the flags over cfg. The terminal always keeps one dialogue
// for the whole process.
func (c *ChatCmd) apply(cfg *config.Config) {
	if c.Provider != "" {
		cfg.Provider = strings.ToLower(c.Provider)
	}
	if c.Model != "" {
		cfg.ModelName = c.Model
	}
	if c.PersonaFile != "" {
		cfg.PersonaFile = c.PersonaFile
	}
	if c.MaxTurns > 0 {
		cfg.SessionMaxTurns = c.MaxTurns
	}
	if c.Timeout > 0 {
		cfg.ModelTimeout = time.Duration(c.Timeout) * time.Second
	}
	cfg.SessionScope = config.ScopeGlobal
	cfg.SessionIdleTTL = 0
	cfg.RedisURL = ""
}
