// Command cgwplay wraps a curses-style game in a VT100 emulator and drives
// it with a scripted AI reactor, the way examples/rogue.rs in the original
// source drove rogue with EmptyAI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kngwyu/curses-game-wrapper/ai"
	"github.com/kngwyu/curses-game-wrapper/config"
	"github.com/kngwyu/curses-game-wrapper/driver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		lines     int
		columns   int
		maxLoop   int
		timeout   time.Duration
		drawMs    int
		logFile   string
		logStderr bool
		env       []string
	)

	cmd := &cobra.Command{
		Use:   "cgwplay <command> [args...]",
		Short: "Drive a curses-style game through a VT100 emulator with a scripted AI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []config.Option{
				config.WithLines(lines),
				config.WithColumns(columns),
				config.WithArgs(args[1:]...),
				config.WithMaxLoop(maxLoop),
				config.WithTimeout(timeout),
			}
			if drawMs > 0 {
				opts = append(opts, config.WithDrawTerminal(time.Duration(drawMs)*time.Millisecond))
			}
			if logFile != "" {
				opts = append(opts, config.WithLogFile(logFile, config.SeverityDebug))
			} else if logStderr {
				opts = append(opts, config.WithLogStderr(config.SeverityWarning))
			}
			for _, kv := range env {
				name, value, ok := splitEnv(kv)
				if !ok {
					return fmt.Errorf("cgwplay: invalid --env %q, want NAME=VALUE", kv)
				}
				opts = append(opts, config.WithEnv(name, value))
			}

			cfg := config.New(args[0], opts...)
			d, err := driver.New(cfg, &ai.ScriptedReactor{LoopNum: maxLoop})
			if err != nil {
				return fmt.Errorf("cgwplay: %w", err)
			}
			d.Play()
			return nil
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 24, "child terminal height")
	cmd.Flags().IntVar(&columns, "columns", 80, "child terminal width")
	cmd.Flags().IntVar(&maxLoop, "max-loop", 100, "number of turns to run before forcing a stop")
	cmd.Flags().DurationVar(&timeout, "timeout", 100*time.Millisecond, "quiescent window used as the turn boundary")
	cmd.Flags().IntVar(&drawMs, "draw-interval-ms", 0, "mirror raw output to stdout every N ms (0 disables the viewer)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write debug-level logs to this file")
	cmd.Flags().BoolVar(&logStderr, "log-stderr", false, "write warning-level logs to stderr (ignored if --log-file is set)")
	cmd.Flags().StringArrayVar(&env, "env", nil, "NAME=VALUE to add to the child's environment (repeatable)")

	return cmd
}

func splitEnv(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
