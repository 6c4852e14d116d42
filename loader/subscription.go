package loader

// Subscription is a conflated view of the machine's snapshots: it holds at
// most one pending value, and a newer snapshot replaces an unread one.
type Subscription struct {
	machine *Machine
	ch      chan LoadingState
	done    bool
}

// C returns the snapshot channel. It is closed by Close or when the machine closes.
func (s *Subscription) C() <-chan LoadingState {
	return s.ch
}

// Close stops delivery and closes the channel
func (s *Subscription) Close() {
	m := s.machine
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, s)
	s.closeLocked()
}

// offer must be called with machine.mu held; it is then the only sender.
func (s *Subscription) offer(state LoadingState) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- state
}

func (s *Subscription) closeLocked() {
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}
