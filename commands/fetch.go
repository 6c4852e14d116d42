package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"lottie-catalog/api"
	"lottie-catalog/config"
	"lottie-catalog/domain"
	"lottie-catalog/filesystem"
	"lottie-catalog/loader"
)

// ErrAnimationNotFound is returned when the requested ID is not in the catalog
var ErrAnimationNotFound = errors.New("animation not found")

// FetchCmd handles the `fetch` command
type FetchCmd struct {
	service      *domain.CatalogService
	config       *config.Manager
	store        *filesystem.Manager
	out          io.Writer
	stepInterval time.Duration
	observers    []loader.Observer
}

// NewFetchCmd creates a fetch command. Observers are attached to the machine
// that performs the download.
func NewFetchCmd(client api.ClientInterface, cfg *config.Manager, out io.Writer, stepInterval time.Duration, observers ...loader.Observer) *FetchCmd {
	return &FetchCmd{
		service:      domain.NewCatalogService(client),
		config:       cfg,
		out:          out,
		stepInterval: stepInterval,
		observers:    observers,
	}
}

// WithStore keeps a copy of every fetched payload in store when -save is given
func (c *FetchCmd) WithStore(store *filesystem.Manager) *FetchCmd {
	c.store = store
	return c
}

// Execute downloads one animation by ID: fetch [-o file] [-save] <id>
func (c *FetchCmd) Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(c.out)
	output := fs.String("o", "", "write the payload to this file instead of stdout")
	save := fs.Bool("save", false, "also keep the payload in the local animation store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: fetch [-o file] [-save] <animation-id>")
	}
	id := fs.Arg(0)

	opts := []loader.Option{loader.WithStepInterval(c.stepInterval)}
	for _, o := range c.observers {
		opts = append(opts, loader.WithObserver(o))
	}
	progressOut := c.out
	if *output == "" {
		// keep stdout clean for the payload
		progressOut = os.Stderr
	}
	opts = append(opts, loader.WithObserver(&progressPrinter{out: progressOut, id: id}))

	m := loader.New(ctx, c.service, opts...)
	defer m.Close()

	m.LoadCatalog()
	m.Wait()
	state := m.Snapshot()
	if state.HasError() {
		return errors.New(state.Message())
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var target *api.AnimationDescriptor
	for i := range state.Catalog {
		if state.Catalog[i].ID == id {
			target = &state.Catalog[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrAnimationNotFound, id)
	}

	m.Download(*target)
	m.Wait()
	state = m.Snapshot()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if state.Phase != loader.Downloaded {
		return errors.New(state.Message())
	}

	if *output == "" {
		fmt.Fprint(c.out, state.Payload())
	} else {
		if err := os.WriteFile(*output, []byte(state.Payload()), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *output, err)
		}
		fmt.Fprintf(c.out, "Saved %s to %s\n", target.Name, *output)
	}

	if *save {
		if c.store == nil {
			return errors.New("no animation store configured")
		}
		path, err := c.store.SavePayload(target.ID, state.Payload())
		if err != nil {
			return fmt.Errorf("failed to store payload: %w", err)
		}
		fmt.Fprintf(progressOut, "Stored %s in %s\n", target.ID, path)
	}

	if c.config != nil {
		if err := c.config.MarkAnimationDownloaded(target.ID); err != nil {
			return fmt.Errorf("failed to record download: %w", err)
		}
	}
	return nil
}

// progressPrinter renders download progress as a single updating line
type progressPrinter struct {
	out io.Writer
	id  string
}

func (p *progressPrinter) OnStateChange(prev, next loader.LoadingState) {
	switch {
	case next.Phase == loader.Downloading && next.DownloadProgress != prev.DownloadProgress,
		next.Phase == loader.Downloading && prev.Phase != loader.Downloading:
		fmt.Fprintf(p.out, "\rDownloading %s %3.0f%%", p.id, next.DownloadProgress*100)
	case prev.Phase == loader.Downloading && next.Phase != loader.Downloading:
		fmt.Fprintln(p.out)
	}
}
