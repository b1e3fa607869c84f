// Package ambient provides the periodic tick collaborator that accompanies an
// ongoing investigation. It is constructed explicitly and injected into its
// caller, never held as a package-level instance, so sessions and tests stay
// isolated from each other.
package ambient

import (
	"sync"
	"time"
)

// Pulse fires a callback at a fixed interval while armed. It must be armed
// only while its session is on the investigating screen and disarmed on every
// other screen. Arm and Disarm are idempotent and safe for concurrent use.
type Pulse struct {
	mu          sync.Mutex
	interval    time.Duration
	fire        func()
	stopChannel chan struct{}
}

func NewPulse(interval time.Duration, fire func()) *Pulse {
	return &Pulse{
		interval: interval,
		fire:     fire,
	}
}

// Arm starts the ticking goroutine. Arming an armed pulse does nothing.
func (p *Pulse) Arm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopChannel != nil {
		return
	}
	stopChannel := make(chan struct{})
	p.stopChannel = stopChannel
	go p.tick(stopChannel)
}

// Disarm stops the ticking goroutine. No callback fires after Disarm returns.
func (p *Pulse) Disarm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopChannel == nil {
		return
	}
	close(p.stopChannel)
	p.stopChannel = nil
}

// Armed reports whether the pulse is ticking.
func (p *Pulse) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopChannel != nil
}

func (p *Pulse) tick(stopChannel chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopChannel:
			return
		case <-ticker.C:
			// Fire under the lock so no tick can land after Disarm returns.
			// The callback must not call back into the pulse.
			p.mu.Lock()
			if p.stopChannel == stopChannel {
				p.fire()
			}
			p.mu.Unlock()
		}
	}
}
