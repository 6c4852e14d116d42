package controller

import (
	"fmt"
	"strings"

	"lottie-catalog/loader"
	"lottie-catalog/tui/state"
)

const (
	previewLimit   = 400
	playbackTrack  = 24
	appTitle       = "Lottie Catalog"
	noDescription  = "No description"
	emptyCatalog   = "No animations available."
	loadingCatalog = "Loading animations..."
)

// View renders the current screen
func (c *Controller) View() string {
	if c.quitting {
		return c.theme.MutedStyle().Render("Goodbye!") + "\n"
	}

	var body, help string
	switch c.stateMachine.Current() {
	case state.CatalogList:
		body = c.renderCatalogList()
		help = c.footer.View(c.footerBindings.Catalog(c.snapshot.HasError())...)
	case state.AnimationDetail:
		body = c.renderAnimationDetail()
		help = c.footer.View(c.footerBindings.Detail(c.snapshot.HasError())...)
	case state.Demos:
		body = c.renderDemos()
		help = c.footer.View(c.footerBindings.Demos()...)
	default:
		body = "Unknown screen"
	}

	return c.renderHeader() + "\n\n" + body + "\n\n" + help
}

func (c *Controller) renderHeader() string {
	header := c.gradient.Render(appTitle, true)
	if c.version != "" {
		header += " " + c.theme.MutedStyle().Render(c.version)
	}
	return header
}

func (c *Controller) renderCatalogList() string {
	s := c.snapshot

	switch {
	case len(s.Catalog) == 0 && s.Phase == loader.Loading:
		return c.spinner.View() + " " + c.theme.TextStyle().Render(loadingCatalog)
	case len(s.Catalog) == 0 && s.HasError():
		return c.theme.ErrorStyle().Render("⚠ "+s.Message()) + "\n\n" +
			c.theme.HelpStyle().Render("Press r to try again")
	case len(s.Catalog) == 0:
		return c.theme.MutedStyle().Render(emptyCatalog)
	}

	var b strings.Builder
	if s.HasError() {
		b.WriteString(c.renderErrorBanner(s.Message()))
		b.WriteString("\n")
	}
	b.WriteString(c.table.View())
	if status := c.renderActivity(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}
	return b.String()
}

// renderActivity describes background work while the list stays visible
func (c *Controller) renderActivity() string {
	s := c.snapshot
	switch s.Phase {
	case loader.Loading:
		return c.spinner.View() + " Refreshing catalog..."
	case loader.Downloading:
		return c.spinner.View() + fmt.Sprintf(" Downloading %s %3.0f%%", c.downloadingName(), s.DownloadProgress*100)
	}
	return ""
}

func (c *Controller) renderAnimationDetail() string {
	if c.selected == nil {
		return c.theme.MutedStyle().Render("No animation selected.")
	}
	d := c.selected
	s := c.snapshot

	var b strings.Builder
	b.WriteString(c.theme.HeaderStyle().Render(d.Name))
	b.WriteString("\n")
	b.WriteString(c.theme.TextStyle().Render(d.DescriptionOr(noDescription)))
	b.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"ID", d.ID},
		{"URL", d.URL},
		{"Size", d.SizeLabel()},
		{"Duration", d.DurationLabel()},
	}
	if status := c.animationStatus(d.ID); status != "" {
		fields = append(fields, struct{ label, value string }{"Status", status})
	}
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("%s %s\n", c.theme.MutedStyle().Render(fmt.Sprintf("%-9s", f.label)), f.value))
	}

	switch {
	case s.Phase == loader.Downloading && c.downloadingID == d.ID:
		b.WriteString("\n")
		b.WriteString(c.progress.ViewAs(s.DownloadProgress))
	case s.Phase == loader.Downloading:
		b.WriteString("\n")
		b.WriteString(c.theme.MutedStyle().Render("Another download is in progress."))
	}

	if s.HasError() {
		b.WriteString("\n")
		b.WriteString(c.renderErrorBanner(s.Message()))
	}

	if s.HasPayload() && c.payloadID == d.ID {
		b.WriteString("\n")
		b.WriteString(c.theme.SuccessStyle().Render(fmt.Sprintf("Downloaded %d bytes", len(s.Payload()))))
		if c.savedPath != "" {
			b.WriteString("\n")
			b.WriteString(c.theme.MutedStyle().Render("Saved to " + c.savedPath))
		}
		b.WriteString("\n")
		b.WriteString(c.theme.CardStyle().Render(truncate(s.Payload(), previewLimit)))
	}

	return b.String()
}

func (c *Controller) renderDemos() string {
	var b strings.Builder
	b.WriteString(c.demoMenu.View())
	b.WriteString("\n\n")

	stage := c.stages.Current()
	stageCard := fmt.Sprintf("%s\n%s\n%s",
		c.theme.HeaderStyle().Render(stage.Label),
		c.demoBar.ViewAs(stage.Fraction),
		c.theme.MutedStyle().Render(fmt.Sprintf("Step %d of %d", stage.Index+1, stage.Total)),
	)

	sweepLabel := "Idle"
	if c.sweep.Running() {
		sweepLabel = fmt.Sprintf("%3.0f%%", c.sweep.Value()*100)
	}
	sweepCard := fmt.Sprintf("%s\n%s\n%s",
		c.theme.HeaderStyle().Render("Progress"),
		c.demoBar.ViewAs(c.sweep.Eased()),
		c.theme.MutedStyle().Render(sweepLabel),
	)

	playState := "▶ Playing"
	if !c.playback.Playing() {
		playState = "⏸ Paused"
	}
	playCard := fmt.Sprintf("%s\n%s\n%s",
		c.theme.HeaderStyle().Render("Playback"),
		playbackFrame(c.playback.Position(), playbackTrack),
		c.theme.MutedStyle().Render(playState+" "+c.playback.SpeedLabel()),
	)

	cards := []string{stageCard, sweepCard, playCard}
	highlighted := c.demoMenu.SelectedIndex()
	for i, card := range cards {
		style := c.theme.CardStyle()
		if i == highlighted {
			style = style.BorderForeground(c.theme.GetColors().Accent)
		}
		b.WriteString(style.Render(card))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Controller) renderErrorBanner(message string) string {
	return c.theme.ErrorBannerStyle().Render("⚠ " + message + "  (x to dismiss)")
}

func (c *Controller) downloadingName() string {
	for _, a := range c.snapshot.Catalog {
		if a.ID == c.downloadingID {
			return a.Name
		}
	}
	return c.downloadingID
}

// playbackFrame draws a marker moving along a track
func playbackFrame(position float64, width int) string {
	marker := int(position * float64(width))
	if marker >= width {
		marker = width - 1
	}
	return strings.Repeat("─", marker) + "●" + strings.Repeat("─", width-marker-1)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
