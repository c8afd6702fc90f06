package upstream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

var simulatedViewers = []string{
	"pixelpaula", "mango.moto", "bitterbee", "Kofi_Online", "lurker.lena",
	"dez4real", "noodlearmy", "cloud_cass",
}

var simulatedComments = []string{
	"hi from brazil!!", "W stream", "what song is this?", "LOL",
	"first time here, this is great", "greetings from germany",
	"can you say hi to my sister", "no way hahaha",
}

var simulatedGifts = []struct {
	name     string
	giftType int
	diamonds int
}{
	{"Rose", 1, 1},
	{"Finger Heart", 1, 5},
	{"Doughnut", 0, 30},
	{"Galaxy", 0, 1000},
}

// Simulated is a Connector that emits a scripted synthetic feed. It stands
// in for a real platform connector during local development and demos.
type Simulated struct {
	logger   *zap.Logger
	username string
	interval time.Duration

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewSimulatedFactory returns a Factory producing Simulated connectors
// that emit an event roughly every interval.
func NewSimulatedFactory(logger *zap.Logger, interval time.Duration) Factory {
	return func(username string) Connector {
		return &Simulated{
			logger:   logger,
			username: username,
			interval: interval,
			events:   make(chan Event),
			done:     make(chan struct{}),
		}
	}
}

func (s *Simulated) Connect(ctx context.Context) error {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return context.Canceled
	}

	s.logger.Info("simulated upstream connected",
		zap.String("streamer", s.username))

	go s.run()

	return nil
}

func (s *Simulated) Events() <-chan Event {
	return s.events
}

func (s *Simulated) Disconnect() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Simulated) run() {
	defer close(s.events)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	viewers := 20 + rng.Intn(200)
	likes := rng.Intn(1000)
	var tick int

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		tick++
		for _, event := range s.script(rng, tick, &viewers, &likes) {
			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		}
	}
}

// script produces the events for one tick: mostly chat, with periodic
// counters, a gift streak every eighth tick, and the odd social event.
func (s *Simulated) script(rng *rand.Rand, tick int, viewers, likes *int) []Event {
	nickname := simulatedViewers[rng.Intn(len(simulatedViewers))]

	switch {
	case tick%8 == 0:
		gift := simulatedGifts[rng.Intn(len(simulatedGifts))]
		if gift.giftType != 1 {
			return []Event{GiftEvent{
				Nickname:     nickname,
				GiftName:     gift.name,
				GiftType:     gift.giftType,
				RepeatCount:  1,
				RepeatEnd:    true,
				DiamondCount: gift.diamonds,
			}}
		}

		streak := 2 + rng.Intn(4)
		events := make([]Event, 0, streak)
		for count := 1; count <= streak; count++ {
			events = append(events, GiftEvent{
				Nickname:     nickname,
				GiftName:     gift.name,
				GiftType:     gift.giftType,
				RepeatCount:  count,
				RepeatEnd:    count == streak,
				DiamondCount: gift.diamonds,
			})
		}
		return events
	case tick%5 == 0:
		*viewers += rng.Intn(21) - 10
		if *viewers < 1 {
			*viewers = 1
		}
		return []Event{RoomUserEvent{ViewerCount: *viewers}}
	case tick%3 == 0:
		*likes += rng.Intn(50)
		return []Event{LikeEvent{TotalLikeCount: *likes}}
	case tick%7 == 0:
		kinds := []SocialKind{SocialSubscribe, SocialFollow, SocialShare}
		return []Event{SocialEvent{
			Nickname: nickname,
			Kind:     kinds[rng.Intn(len(kinds))],
		}}
	default:
		return []Event{ChatEvent{
			Nickname: nickname,
			Comment:  simulatedComments[rng.Intn(len(simulatedComments))],
		}}
	}
}
