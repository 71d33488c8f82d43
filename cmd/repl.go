package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"reactor/internal/initsvc"
	"reactor/internal/lifecycle"
	"reactor/internal/statusview"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Boot the service graph and drive it interactively",
		Long: `repl boots the registered service graph and opens an interactive
prompt:

  goto <service> <running|stopped>   request a target state
  status                              print the current status table
  exit                                shut the graph down and quit`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, args []string) error {
	init, err := buildInitService()
	if err != nil {
		return err
	}
	if err := init.Boot(); err != nil {
		return err
	}

	view := statusview.New(init.Registrations())
	defer view.Close()

	historyFile := filepath.Join(os.TempDir(), ".reactor_repl_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "reactor » ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("creating readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Println("reactor REPL. Type 'help' for available commands.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		if err := dispatchReplCommand(init, view, input); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}

	fmt.Println("shutting down...")
	return init.Shutdown()
}

func dispatchReplCommand(init *initsvc.InitService, view *statusview.View, input string) error {
	fields := strings.Fields(input)

	switch fields[0] {
	case "help":
		fmt.Println("commands: goto <service> <running|stopped>, status, exit")
		return nil

	case "status":
		fmt.Println(view.Render())
		return nil

	case "goto":
		if len(fields) != 3 {
			return fmt.Errorf("usage: goto <service> <running|stopped>")
		}
		svc, err := init.Service(fields[1], false)
		if err != nil {
			return err
		}
		target, err := lifecycle.ParseServiceState(fields[2])
		if err != nil {
			return err
		}
		return svc.SetTargetState(target)

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
