package broker_test

import (
	"sync/atomic"
	"testing"

	"github.com/myrjola/gumshoe/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(t *testing.T, b *broker.Broker[string, string])
	}
	tests := []testCase{
		{
			name: "subscriber receives stream",
			testFunc: func(t *testing.T, b *broker.Broker[string, string]) {
				stream := make(chan string)
				b.Publish("session", stream)
				go func() {
					stream <- "the butler did it"
					close(stream)
					b.Unpublish("session")
				}()

				received := <-b.Subscribe("session")
				require.Equal(t, "the butler did it", <-received)
				msg, ok := <-received
				require.Empty(t, msg)
				require.False(t, ok, "stream not closed after producer finished")
			},
		},
		{
			name: "unpublished key yields closed channel",
			testFunc: func(t *testing.T, b *broker.Broker[string, string]) {
				received, ok := <-b.Subscribe("missing")
				require.Nil(t, received)
				require.False(t, ok)
			},
		},
		{
			name: "late subscribers wait for producer to finish",
			testFunc: func(t *testing.T, b *broker.Broker[string, string]) {
				stream := make(chan string)
				b.Publish("session", stream)
				producerFinished := atomic.Bool{}

				first := <-b.Subscribe("session")

				lateDone := make(chan struct{})
				go func() {
					defer close(lateDone)
					late, ok := <-b.Subscribe("session")
					assert.Nil(t, late)
					assert.False(t, ok)
					assert.True(t, producerFinished.Load(), "late subscriber unblocked before producer finished")
				}()

				go func() {
					stream <- "the butler did it"
					close(stream)
					producerFinished.Store(true)
					b.Unpublish("session")
				}()

				require.Equal(t, "the butler did it", <-first)
				<-lateDone
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := broker.New[string, string]()
			go b.Start()
			t.Cleanup(b.Stop)
			tt.testFunc(t, b)
		})
	}
}
