package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"lottie-catalog/api"
	"lottie-catalog/commands"
	"lottie-catalog/config"
	"lottie-catalog/domain"
	"lottie-catalog/filesystem"
	"lottie-catalog/loader"
	"lottie-catalog/publish"
	"lottie-catalog/tracing"
	"lottie-catalog/tui"
	"lottie-catalog/tui/controller"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to the config file (default "+config.ConfigFilePath+")")
	flag.Usage = usage
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: lottie-catalog [-config file] [command]\n\n")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  (none)   browse the catalog interactively")
	fmt.Fprintln(out, "  list     print the catalog")
	fmt.Fprintln(out, "  fetch    download one animation: fetch [-o file] [-save] <id>")
	fmt.Fprintln(out, "  demo     play the staged loading sequence: demo [-cycles n]")
	fmt.Fprintln(out, "  version  print the version")
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

func run(ctx context.Context, configPath string, args []string) error {
	cfgManager := config.NewManager(configPath)
	cfg, err := cfgManager.Load()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout)

	store, err := filesystem.NewManager(cfg.PayloadDir)
	if err != nil {
		return fmt.Errorf("payload directory: %w", err)
	}

	tracer := newTracer(cfg.Tracing)
	defer tracer.Close()

	observers := []loader.Observer{tracing.NewStateObserver(tracer)}
	if cfg.MQTT.URL != "" {
		publisher, mqttClient, err := publish.Connect(cfg.MQTT)
		if err != nil {
			// snapshot publishing is optional; carry on without it
			_ = tracer.TrackError(err, "mqtt", map[string]string{"broker": cfg.MQTT.URL})
			fmt.Fprintln(os.Stderr, "Warning:", err)
		} else {
			defer mqttClient.Disconnect(250)
			defer publisher.Close()
			observers = append(observers, publisher)
		}
	}

	if len(args) == 0 {
		return runTUI(ctx, cfg, cfgManager, client, store, tracer, observers)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		return commands.NewListCmd(client, cfgManager, os.Stdout).Execute(ctx, rest)
	case "fetch":
		return commands.NewFetchCmd(client, cfgManager, os.Stdout, cfg.ProgressStepInterval, observers...).
			WithStore(store).
			Execute(ctx, rest)
	case "demo":
		return commands.NewDemoCmd(os.Stdout).Execute(ctx, rest)
	case "version":
		printVersion(os.Stdout)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTUI(ctx context.Context, cfg config.Config, cfgManager *config.Manager, client api.ClientInterface, store *filesystem.Manager, tracer *tracing.Manager, observers []loader.Observer) error {
	opts := []loader.Option{
		loader.WithStepInterval(cfg.ProgressStepInterval),
		loader.WithAutoLoad(),
	}
	for _, o := range observers {
		opts = append(opts, loader.WithObserver(o))
	}

	machine := loader.New(ctx, domain.NewCatalogService(client), opts...)
	defer machine.Close()

	model := tui.New(controller.Dependencies{
		Machine: machine,
		Config:  cfgManager,
		Store:   store,
		Tracer:  tracer,
		Version: version,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// newTracer falls back to a no-op tracer when the trace directory is unusable
func newTracer(cfg config.TracingConfig) *tracing.Manager {
	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Enabled
	tc.LocalDir = cfg.Dir

	manager, err := tracing.NewManager(tc, version)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: tracing disabled:", err)
		return tracing.NewManagerWithTracer(tracing.NewNoOpTracer(), tc)
	}
	return manager
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "lottie-catalog %s\n", version)
}
