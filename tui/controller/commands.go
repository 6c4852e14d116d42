package controller

import (
	"time"

	"lottie-catalog/loader"

	tea "github.com/charmbracelet/bubbletea"
)

// Command message types
type (
	// SnapshotMsg carries the latest machine state
	SnapshotMsg struct {
		State loader.LoadingState
	}

	// SubscriptionClosedMsg is sent once the machine stops publishing
	SubscriptionClosedMsg struct{}

	// ticks carry the demo generation so stale ticks from an earlier visit are dropped
	stageTickMsg    struct{ gen int }
	sweepTickMsg    struct{}
	playbackTickMsg struct {
		gen int
		At  time.Time
	}
)

// waitForSnapshot blocks on the subscription for the next state. Snapshots
// are conflated, so a slow frame only ever sees the newest one.
func waitForSnapshot(sub *loader.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-sub.C()
		if !ok {
			return SubscriptionClosedMsg{}
		}
		return SnapshotMsg{State: s}
	}
}

func stageTick(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return stageTickMsg{gen: gen} })
}

func sweepTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return sweepTickMsg{} })
}

func playbackTick(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return playbackTickMsg{gen: gen, At: t} })
}
