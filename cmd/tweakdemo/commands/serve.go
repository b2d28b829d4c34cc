// File: cmd/tweakdemo/commands/serve.go
// License: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/config"
	"github.com/frobnicators/tweaklib/facade"
	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/internal/printer"
	"github.com/frobnicators/tweaklib/registry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a demo program with tweakable variables",
	Long: `Registers an integer "foo", a double "speed" and a string "greeting",
serves the tweak UI and prints foo once a second. The first interrupt shuts
down cleanly, a second one exits immediately.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", -1, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return printer.Error("invalid configuration", err.Error(),
			"check the file passed with --config",
			"check TWEAKLIB_* environment variables")
	}
	if servePort >= 0 {
		cfg.Server.Port = servePort
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return printer.Error("cannot set up logging", err.Error(),
			"check logging.format and logging.level")
	}
	defer func() { _ = logger.Sync() }()

	tw := facade.New()
	tw.SetLogger(logger)

	var (
		foo      = 5
		speed    = 1.0
		greeting = "hello"
	)
	hFoo := tw.RegisterInt("foo", &foo)
	tw.SetDescription(hFoo, "Lorem ipsum dolor sit amet")
	tw.SetOptions(hFoo, `{"min":0,"max":100}`)
	hSpeed := tw.RegisterDouble("speed", &speed)
	tw.SetOptions(hSpeed, `{"min":0,"max":10,"step":0.1}`)
	hGreeting := tw.RegisterString("greeting", &greeting)

	announce := func(v *registry.Variable) {
		tw.Lock()
		value := v.Value()
		tw.Unlock()
		printer.Success("%s changed to %v\n", v.Name(), value)
	}
	for _, h := range []registry.Handle{hFoo, hSpeed, hGreeting} {
		tw.SetTrigger(h, announce)
	}

	if err := tw.InitConfig(cfg.ServerConfig()); err != nil {
		return printer.Error("cannot start server", err.Error(),
			fmt.Sprintf("is port %d already in use?", cfg.Server.Port))
	}
	printer.Info("tweak UI at http://%s/\n", tw.Server().Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			stop()
			return shutdown(tw)
		case <-ticker.C:
			tw.Lock()
			current := foo
			tw.Unlock()
			printer.Info("foo: %d\n", current)
		}
	}
}

// newLogger writes json through zap directly and text through the colored
// printer, both at the configured level.
func newLogger(cfg logging.Config) (*zap.Logger, error) {
	if cfg.Format == "json" {
		return logging.NewLogger(cfg)
	}
	return logging.NewSinkLogger(printer.LogLine, logging.ParseLevel(cfg.Level)), nil
}

func shutdown(tw *facade.Tweaklib) error {
	printer.Warning("shutting down, interrupt again to abort\n")

	abort := make(chan os.Signal, 1)
	signal.Notify(abort, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(abort)
	go func() {
		if _, ok := <-abort; ok {
			os.Exit(1)
		}
	}()

	if err := tw.Cleanup(); err != nil {
		return printer.Error("shutdown failed", err.Error())
	}
	return nil
}
