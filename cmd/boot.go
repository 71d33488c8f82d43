package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"reactor/internal/eventlog"
	"reactor/internal/initsvc"
)

func newBootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Boot the registered service graph and run until interrupted",
		Long: `boot brings up every service registered with StartOnBoot, in
registration order, waiting on each one's dependencies as it goes, then
blocks until interrupted (SIGINT/SIGTERM), at which point it shuts the
graph down in reverse order.`,
		Args: cobra.NoArgs,
		RunE: runBoot,
	}
}

func runBoot(cmd *cobra.Command, args []string) error {
	shutdownTracing, err := initsvc.SetupTracing(os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer shutdownTracing(cmd.Context())

	init, err := buildInitService()
	if err != nil {
		return fmt.Errorf("registering services: %w", err)
	}

	recorder, err := eventlog.New(os.Stdout, eventlog.DefaultFormat)
	if err != nil {
		return err
	}
	for _, reg := range init.Registrations() {
		recorder.Attach(reg.Name, reg.Service)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " booting service graph..."
	s.Start()
	bootErr := init.Boot()
	s.Stop()

	if bootErr != nil {
		fmt.Fprintln(os.Stderr, text.FgRed.Sprint("boot failed")+": "+bootErr.Error())
		return bootErr
	}
	fmt.Println(text.FgGreen.Sprint("boot complete"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("shutting down...")
	return init.Shutdown()
}
