package controller

import (
	"time"

	"lottie-catalog/api"
	"lottie-catalog/config"
	"lottie-catalog/filesystem"
	"lottie-catalog/loader"
	"lottie-catalog/sequence"
	"lottie-catalog/tracing"
	"lottie-catalog/tui/components/footer"
	"lottie-catalog/tui/components/menu"
	"lottie-catalog/tui/components/table"
	"lottie-catalog/tui/keys"
	"lottie-catalog/tui/state"
	"lottie-catalog/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	playbackCycle    = 2 * time.Second
	playbackInterval = 50 * time.Millisecond
	downloadedStatus = "✓ Downloaded"
)

// Demo menu entries, in display order
const (
	demoStages = iota
	demoSweep
	demoPlayback
)

// Dependencies are the collaborators the controller drives
type Dependencies struct {
	Machine *loader.Machine
	Config  *config.Manager
	Store   *filesystem.Manager
	Tracer  *tracing.Manager
	Theme   *theme.Manager
	Version string
}

// Controller manages the overall TUI state and coordinates between components
type Controller struct {
	// State management
	stateMachine *state.Machine

	// Key handling
	keyHandler     *keys.Handler
	footerBindings *keys.FooterBindings

	tracer *tracing.Manager
	theme  *theme.Manager

	// Components
	table     *table.Component
	demoMenu  *menu.Component
	footer    *footer.Component
	spinner   spinner.Model
	progress  progress.Model
	demoBar   progress.Model
	gradient  theme.Gradient
	stages    *sequence.Stages
	sweep     *sequence.Sweep
	playback  *sequence.Playback
	lastFrame time.Time

	// Dependencies
	machine       *loader.Machine
	subscription  *loader.Subscription
	configManager *config.Manager
	store         *filesystem.Manager
	version       string

	// Application state
	snapshot      loader.LoadingState
	selected      *api.AnimationDescriptor
	downloadingID string
	// payload and error present when the download started; a download is
	// finished once either is replaced
	payloadBefore *string
	errorBefore   *string
	payloadID     string
	savedPath     string
	demosActive   bool
	demoGen       int
	width         int
	quitting      bool
}

// New creates a new TUI controller
func New(deps Dependencies) *Controller {
	themeManager := deps.Theme
	if themeManager == nil {
		themeManager = theme.NewManager()
	}
	colors := themeManager.GetColors()

	c := &Controller{
		stateMachine:   state.NewMachine(state.CatalogList),
		keyHandler:     keys.NewHandler(),
		footerBindings: keys.NewFooterBindings(),
		tracer:         deps.Tracer,
		theme:          themeManager,
		footer:         footer.New(themeManager.HelpStyle()),
		gradient:       themeManager.HeaderGradient(),
		stages:         sequence.DefaultStages(),
		sweep:          sequence.NewSweep(),
		playback:       sequence.NewPlayback(playbackCycle),
		machine:        deps.Machine,
		configManager:  deps.Config,
		store:          deps.Store,
		version:        deps.Version,
	}

	c.table = table.New(table.StatusFunc(c.animationStatus))
	c.table.SetStyles(themeManager.TableHeaderStyle(), themeManager.TableSelectedRowStyle())
	c.table.SetFocused(true)

	c.demoMenu = menu.New([]menu.Item{
		{Title: "Staged loading", Description: "labelled steps on a loop"},
		{Title: "Progress sweep", Description: "press enter to run"},
		{Title: "Controlled playback", Description: "space to pause, s for speed"},
	})
	c.demoMenu.SetStyles(menu.Styles{
		ItemStyle:        themeManager.MenuItemStyle(),
		SelectedStyle:    themeManager.SelectedMenuItemStyle(),
		DescriptionStyle: themeManager.MutedStyle(),
		Cursor:           "  ",
		SelectedCursor:   "> ",
	})

	c.spinner = spinner.New()
	c.spinner.Spinner = spinner.Dot
	c.spinner.Style = themeManager.SpinnerStyle()

	c.progress = progress.New(progress.WithGradient(colors.GradientStart, colors.GradientEnd))
	c.demoBar = progress.New(progress.WithGradient(colors.GradientStart, colors.GradientEnd), progress.WithoutPercentage())

	if c.machine != nil {
		c.subscription = c.machine.Subscribe()
	}

	return c
}

// Init initializes the controller and returns initial commands
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, waitForSnapshot(c.subscription))
}

// Update handles incoming messages and updates the controller state
func (c *Controller) Update(msg tea.Msg) (*Controller, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && c.keyHandler.IsQuit(keyMsg) {
		c.quitting = true
		c.cleanup()
		return c, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.progress.Width = clamp(msg.Width-10, 20, 60)
		c.demoBar.Width = clamp(msg.Width-20, 20, 40)
		return c, nil
	case SnapshotMsg:
		c.applySnapshot(msg.State)
		return c, waitForSnapshot(c.subscription)
	case SubscriptionClosedMsg:
		return c, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	case stageTickMsg:
		return c, c.handleStageTick(msg.gen)
	case sweepTickMsg:
		return c, c.handleSweepTick()
	case playbackTickMsg:
		return c, c.handlePlaybackTick(msg.gen, msg.At)
	case state.TransitionMsg:
		c.trackScreen(msg.Transition)
		return c, nil
	case state.ErrorMsg:
		if c.tracer != nil {
			_ = c.tracer.TrackError(msg.Error, "tui", nil)
		}
		return c, nil
	}

	return c.handleScreenUpdate(msg)
}

// handleScreenUpdate delegates message handling based on the current screen
func (c *Controller) handleScreenUpdate(msg tea.Msg) (*Controller, tea.Cmd) {
	switch c.stateMachine.Current() {
	case state.CatalogList:
		return c.handleCatalogList(msg)
	case state.AnimationDetail:
		return c.handleAnimationDetail(msg)
	case state.Demos:
		return c.handleDemos(msg)
	default:
		return c, nil
	}
}

func (c *Controller) handleCatalogList(msg tea.Msg) (*Controller, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		c.table, cmd = c.table.Update(msg)
		return c, cmd
	}

	switch {
	case c.keyHandler.IsEnter(keyMsg):
		highlighted := c.table.HighlightedAnimation()
		if highlighted == nil {
			return c, nil
		}
		c.selected = highlighted
		c.trackAction("open", highlighted.ID)
		return c, c.stateMachine.Transition(state.AnimationDetail)
	case c.keyHandler.IsDownload(keyMsg):
		if highlighted := c.table.HighlightedAnimation(); highlighted != nil {
			c.startDownload(*highlighted)
		}
		return c, nil
	case c.keyHandler.IsRetry(keyMsg):
		c.trackAction("retry", "catalog")
		c.machine.Retry()
		return c, nil
	case c.keyHandler.IsDismiss(keyMsg):
		c.dismissError()
		return c, nil
	case c.keyHandler.IsDemos(keyMsg):
		return c, tea.Batch(c.stateMachine.Transition(state.Demos), c.startDemos())
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *Controller) handleAnimationDetail(msg tea.Msg) (*Controller, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case c.keyHandler.IsDownload(keyMsg):
		if c.selected != nil {
			c.startDownload(*c.selected)
		}
	case c.keyHandler.IsDismiss(keyMsg):
		c.dismissError()
	case c.keyHandler.IsFolder(keyMsg):
		if c.store != nil {
			c.trackAction("open_folder", c.store.Root())
			if err := c.store.OpenFileExplorer(); err != nil {
				return c, func() tea.Msg { return state.ErrorMsg{Error: err} }
			}
		}
	case c.keyHandler.IsBack(keyMsg):
		return c, c.stateMachine.GoBack()
	}
	return c, nil
}

func (c *Controller) handleDemos(msg tea.Msg) (*Controller, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case c.keyHandler.IsBack(keyMsg):
			c.demosActive = false
			return c, c.stateMachine.GoBack()
		case c.keyHandler.IsPlay(keyMsg):
			c.playback.TogglePlay()
			c.trackAction("toggle_play", "playback")
			return c, nil
		case c.keyHandler.IsSpeed(keyMsg):
			c.playback.ToggleSpeed()
			c.trackAction("toggle_speed", c.playback.SpeedLabel())
			return c, nil
		}
	}

	if selectMsg, ok := msg.(menu.SelectMsg); ok {
		if selectMsg.Index == demoSweep && c.sweep.Start() {
			c.trackAction("start_sweep", "sweep")
			return c, sweepTick(c.sweep.Delay())
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.demoMenu, cmd = c.demoMenu.Update(msg)
	return c, cmd
}

// applySnapshot takes a new machine state and updates derived UI state
func (c *Controller) applySnapshot(next loader.LoadingState) {
	c.snapshot = next

	c.table.SetAnimations(next.Catalog)

	if c.downloadingID == "" {
		return
	}

	// Snapshots are conflated, so the Downloading phase itself may never be seen.
	switch {
	case next.Phase == loader.Downloaded && next.ActivePayload != c.payloadBefore:
		c.payloadID = c.downloadingID
		c.savedPath = ""
		if c.store != nil {
			path, err := c.store.SavePayload(c.downloadingID, next.Payload())
			if err != nil {
				c.trackError(err, "store", c.downloadingID)
			} else {
				c.savedPath = path
			}
		}
		if c.configManager != nil {
			if err := c.configManager.MarkAnimationDownloaded(c.downloadingID); err != nil {
				c.trackError(err, "config", c.downloadingID)
			}
		}
		c.table.RefreshStatus()
		c.downloadingID = ""
	case next.Phase == loader.Failed && next.ErrorMessage != nil && next.ErrorMessage != c.errorBefore:
		c.downloadingID = ""
	}
}

func (c *Controller) startDownload(d api.AnimationDescriptor) {
	if c.downloadingID != "" {
		return
	}
	c.downloadingID = d.ID
	c.payloadBefore = c.snapshot.ActivePayload
	c.errorBefore = c.snapshot.ErrorMessage
	c.trackAction("download", d.ID)
	c.machine.Download(d)
}

func (c *Controller) dismissError() {
	if !c.snapshot.HasError() {
		return
	}
	c.trackAction("dismiss_error", c.stateMachine.Current().String())
	c.machine.ClearError()
}

// startDemos restarts the looping demos for a new visit to the demos screen
func (c *Controller) startDemos() tea.Cmd {
	c.demosActive = true
	c.demoGen++
	c.stages.Reset()
	c.lastFrame = time.Time{}
	return tea.Batch(
		stageTick(c.demoGen, c.stages.Delay()),
		playbackTick(c.demoGen, playbackInterval),
	)
}

func (c *Controller) handleStageTick(gen int) tea.Cmd {
	if !c.demosActive || gen != c.demoGen {
		return nil
	}
	c.stages.Advance()
	return stageTick(gen, c.stages.Delay())
}

func (c *Controller) handleSweepTick() tea.Cmd {
	if !c.sweep.Advance() {
		return nil
	}
	return sweepTick(c.sweep.Delay())
}

func (c *Controller) handlePlaybackTick(gen int, at time.Time) tea.Cmd {
	if !c.demosActive || gen != c.demoGen {
		return nil
	}
	if !c.lastFrame.IsZero() {
		c.playback.Advance(at.Sub(c.lastFrame))
	}
	c.lastFrame = at
	return playbackTick(gen, playbackInterval)
}

func (c *Controller) animationStatus(id string) string {
	if c.configManager != nil && c.configManager.IsAnimationDownloaded(id) {
		return downloadedStatus
	}
	if c.store != nil && c.store.HasPayload(id) {
		return downloadedStatus
	}
	return ""
}

func (c *Controller) trackAction(action, target string) {
	if c.tracer != nil {
		_ = c.tracer.TrackUserAction(action, target, "")
	}
}

func (c *Controller) trackError(err error, component, animationID string) {
	if c.tracer != nil {
		_ = c.tracer.TrackError(err, component, map[string]string{"animation": animationID})
	}
}

func (c *Controller) trackScreen(t state.Transition) {
	if c.tracer != nil {
		_ = c.tracer.TrackStateTransition(t.From.String(), t.To.String(), "screen_change")
	}
}

// Getters for accessing controller state
func (c *Controller) IsQuitting() bool {
	return c.quitting
}

func (c *Controller) CurrentScreen() state.Screen {
	return c.stateMachine.Current()
}

func (c *Controller) Snapshot() loader.LoadingState {
	return c.snapshot
}

// cleanup stops snapshot delivery before the program exits
func (c *Controller) cleanup() {
	c.demosActive = false
	if c.subscription != nil {
		c.subscription.Close()
	}
	if c.tracer != nil {
		_ = c.tracer.TrackStateTransition(c.stateMachine.Current().String(), "application_exit", "user_quit")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
