// Package commands implements the non-interactive subcommands.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"lottie-catalog/api"
	"lottie-catalog/config"
	"lottie-catalog/domain"
)

// ListCmd handles the `list` command
type ListCmd struct {
	service *domain.CatalogService
	config  *config.Manager
	out     io.Writer
}

// NewListCmd creates a list command reading through client
func NewListCmd(client api.ClientInterface, cfg *config.Manager, out io.Writer) *ListCmd {
	return &ListCmd{
		service: domain.NewCatalogService(client),
		config:  cfg,
		out:     out,
	}
}

// Execute fetches the catalog and prints it as a table
func (c *ListCmd) Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(c.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, ok := <-c.service.ListAnimations().Run(ctx)
	if !ok {
		return domain.ErrUnknown
	}
	animations, err := result.Get()
	if err != nil {
		return fmt.Errorf("failed to list animations: %w", err)
	}

	if len(animations) == 0 {
		fmt.Fprintln(c.out, "No animations available.")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "Size", "Duration", "Downloaded")
	for _, a := range animations {
		downloaded := ""
		if c.config != nil && c.config.IsAnimationDownloaded(a.ID) {
			downloaded = "yes"
		}
		if err := table.Append([]string{a.ID, a.Name, a.SizeLabel(), a.DurationLabel(), downloaded}); err != nil {
			return err
		}
	}
	return table.Render()
}
