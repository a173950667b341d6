// Package connectivity tracks whether the backend is reachable and notifies
// subscribers about online/offline transitions.
package connectivity

import (
	"sync"
	"time"
)

// State - текущее состояние сети
type State struct {
	ChangedAt time.Time `json:"changed_at" yaml:"changed_at"`
	Online    bool      `json:"online" yaml:"online"`
}

// Monitor хранит последнее известное состояние сети и рассылает переходы подписчикам.
// Наблюдения подаются через Set; подписчики получают только реальные переходы.
type Monitor struct {
	now   func() time.Time
	subs  map[int]chan State
	state State
	mu    sync.RWMutex
	next  int
}

// NewMonitor создает монитор с начальным состоянием online
func NewMonitor(online bool) *Monitor {
	return &Monitor{
		now:   time.Now,
		subs:  make(map[int]chan State),
		state: State{Online: online, ChangedAt: time.Now()},
	}
}

// IsOnline возвращает текущее состояние
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Online
}

// State возвращает копию текущего состояния
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Set records an observation. Subscribers are notified only when the value
// actually changes. Returns true if a transition happened.
func (m *Monitor) Set(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Online == online {
		return false
	}
	m.state = State{Online: online, ChangedAt: m.now()}
	for _, ch := range m.subs {
		deliver(ch, m.state)
	}
	return true
}

// Subscribe returns a channel receiving every transition and a function that
// cancels the subscription. The channel keeps only the latest state, so a slow
// subscriber never blocks Set.
func (m *Monitor) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	ch := make(chan State, 1)
	m.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// deliver кладет состояние в канал, вытесняя непрочитанное старое значение
func deliver(ch chan State, s State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
