package fetchcache

// Subscription follows one key. Updates is latest-wins: a slow reader only
// sees the most recent state. After Close no further state is delivered.
type Subscription struct {
	store   *Store
	key     string
	entry   *entry
	updates chan State
	closed  bool
}

func (sub *Subscription) Key() string {
	return sub.key
}

// State returns the current state of the key.
func (sub *Subscription) State() State {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.closed {
		return State{Err: ErrClosed}
	}
	return sub.entry.state()
}

// Updates is closed when the subscription or its store is closed.
func (sub *Subscription) Updates() <-chan State {
	return sub.updates
}

func (sub *Subscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	sub.closeLocked()
}

func (sub *Subscription) closeLocked() {
	if sub.closed {
		return
	}
	sub.closed = true
	if sub.entry != nil {
		delete(sub.entry.subs, sub)
	}
	close(sub.updates)
}

func (sub *Subscription) deliver(st State) {
	select {
	case <-sub.updates:
	default:
	}
	select {
	case sub.updates <- st:
	default:
	}
}
