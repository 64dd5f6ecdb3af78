// Package pubsub fans replay outcomes out to listeners.
package pubsub

import (
	"github.com/hannahhoward/go-pubsub"
	"github.com/ipfs/go-cid"
)

// EventCode is the outcome of running one input through one driver.
type EventCode int

const (
	// Passed means every property held
	Passed EventCode = iota
	// Skipped means the input did not describe a value
	Skipped
	// Failed means a property was violated
	Failed
	// Panicked means the driver panicked
	Panicked
)

var eventNames = map[EventCode]string{
	Passed:   "Passed",
	Skipped:  "Skipped",
	Failed:   "Failed",
	Panicked: "Panicked",
}

func (c EventCode) String() string {
	name, ok := eventNames[c]
	if !ok {
		return "Unknown"
	}
	return name
}

// Event describes one driver run.
type Event struct {
	Code   EventCode
	Driver string
	Input  cid.Cid
	Err    error
}

// Listener is called for every published event.
type Listener func(Event)

// Unsubscribe removes a listener. Calling it again is a no-op.
type Unsubscribe func()

// PubSub is a simple emitter of replay events
type PubSub struct {
	pubSub *pubsub.PubSub
}

func dispatcher(evt pubsub.Event, subscriberFn pubsub.SubscriberFn) error {
	event, ok := evt.(Event)
	if !ok {
		return nil
	}
	listener, ok := subscriberFn.(Listener)
	if !ok {
		return nil
	}
	listener(event)
	return nil
}

// New returns a new PubSub
func New() *PubSub {
	return &PubSub{pubSub: pubsub.New(dispatcher)}
}

// Subscribe adds the given listener
func (ps *PubSub) Subscribe(listener Listener) Unsubscribe {
	return Unsubscribe(ps.pubSub.Subscribe(listener))
}

// Publish sends evt to every listener
func (ps *PubSub) Publish(evt Event) {
	_ = ps.pubSub.Publish(evt)
}
