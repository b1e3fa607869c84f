// Package broker hands a live stream channel from a producer to its first
// consumer. Late consumers block until the producer finishes and then receive
// a closed channel, signalling that they should fall back to persisted data
// such as the session's evidence log.
//
// The producer here is the goroutine generating a companion hint and the
// first consumer is the SSE handler relaying the chunks to the browser.
package broker

// Broker routes stream channels by key. All operations funnel through a
// single goroutine started with Start, so there is no shared state to lock.
type Broker[K comparable, V any] struct {
	ops         chan func(streams map[K]chan V, waiters map[K][]chan chan V)
	stopChannel chan struct{}
}

func New[K comparable, V any]() *Broker[K, V] {
	return &Broker[K, V]{
		ops:         make(chan func(streams map[K]chan V, waiters map[K][]chan chan V)),
		stopChannel: make(chan struct{}),
	}
}

// Start processes broker operations until Stop is called. It blocks, so it
// should be called in a goroutine.
func (b *Broker[K, V]) Start() {
	streams := map[K]chan V{}
	waiters := map[K][]chan chan V{}
	for {
		select {
		case <-b.stopChannel:
			return
		case op := <-b.ops:
			op(streams, waiters)
		}
	}
}

// Stop terminates the goroutine running Start.
func (b *Broker[K, V]) Stop() {
	close(b.stopChannel)
}

// Publish registers the stream for the key. The stream is handed to the first
// subscriber; the producer should buffer or drop writes if no subscriber may
// ever arrive.
func (b *Broker[K, V]) Publish(key K, stream chan V) {
	b.ops <- func(streams map[K]chan V, _ map[K][]chan chan V) {
		streams[key] = stream
	}
}

// Unpublish removes the stream for the key and releases any waiting
// subscribers with a closed channel.
func (b *Broker[K, V]) Unpublish(key K) {
	b.ops <- func(streams map[K]chan V, waiters map[K][]chan chan V) {
		delete(streams, key)
		for _, waiter := range waiters[key] {
			close(waiter)
		}
		delete(waiters, key)
	}
}

// Subscribe returns a channel delivering the stream for the key. When no
// stream is published, the returned channel is closed immediately. When the
// stream is already taken, the returned channel stays open until Unpublish
// and is then closed without delivering a stream.
func (b *Broker[K, V]) Subscribe(key K) chan chan V {
	receiver := make(chan chan V, 1)
	b.ops <- func(streams map[K]chan V, waiters map[K][]chan chan V) {
		stream, published := streams[key]
		if !published {
			close(receiver)
			return
		}
		if _, taken := waiters[key]; taken {
			waiters[key] = append(waiters[key], receiver)
			return
		}
		// First subscriber takes the stream. The empty waiter list marks it taken.
		waiters[key] = []chan chan V{}
		receiver <- stream
	}
	return receiver
}
