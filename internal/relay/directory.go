package relay

import (
	"errors"
	"sync"

	"github.com/overlaykit/streamrelay/internal/ierr"
)

// Directory tracks which streamer each open subscriber watches. It is
// pure derived state: entries exist only for currently-open subscribers.
type Directory struct {
	mu sync.RWMutex

	subscribersByStreamer map[string]map[string]*Subscriber
	streamerBySubscriber  map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		subscribersByStreamer: make(map[string]map[string]*Subscriber),
		streamerBySubscriber:  make(map[string]string),
	}
}

// Associate records that subscriber watches streamer. A subscriber is
// bound to at most one streamer; associating an already-bound subscriber
// with a different streamer fails.
func (d *Directory) Associate(subscriber *Subscriber, streamer string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if current, ok := d.streamerBySubscriber[subscriber.Id]; ok && current != streamer {
		return ierr.New(ierr.ErrorCodeFailedPrecondition,
			errors.New("subscriber already watching another streamer"))
	}

	if _, ok := d.subscribersByStreamer[streamer]; !ok {
		d.subscribersByStreamer[streamer] = make(map[string]*Subscriber)
	}

	d.subscribersByStreamer[streamer][subscriber.Id] = subscriber
	d.streamerBySubscriber[subscriber.Id] = streamer

	return nil
}

// Disassociate removes the subscriber from whatever streamer set it
// belonged to. It returns the streamer it was removed from, or false if
// the subscriber was unassociated.
func (d *Directory) Disassociate(subscriber *Subscriber) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	streamer, ok := d.streamerBySubscriber[subscriber.Id]
	if !ok {
		return "", false
	}

	delete(d.streamerBySubscriber, subscriber.Id)

	subscribers, ok := d.subscribersByStreamer[streamer]
	if !ok {
		panic("inconsistent state: streamer not found in subscribersByStreamer")
	}

	delete(subscribers, subscriber.Id)
	if len(subscribers) == 0 {
		delete(d.subscribersByStreamer, streamer)
	}

	return streamer, true
}

// StreamerOf returns the streamer the subscriber currently watches.
func (d *Directory) StreamerOf(subscriberId string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	streamer, ok := d.streamerBySubscriber[subscriberId]

	return streamer, ok
}

// SubscribersOf returns a snapshot of the streamer's subscriber set.
// Subscribers may close between the snapshot and delivery; senders skip
// them via TrySend.
func (d *Directory) SubscribersOf(streamer string) []*Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries, ok := d.subscribersByStreamer[streamer]
	if !ok {
		return nil
	}

	subscribers := make([]*Subscriber, 0, len(entries))
	for _, subscriber := range entries {
		subscribers = append(subscribers, subscriber)
	}

	return subscribers
}

// Count returns the number of subscribers currently watching streamer.
func (d *Directory) Count(streamer string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.subscribersByStreamer[streamer])
}
