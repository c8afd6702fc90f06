package upstream

import "context"

// Event is one raw event emitted by a streamer's live feed. Field names
// follow the platform connector's payloads.
type Event interface {
	eventKind() string
}

type ChatEvent struct {
	Nickname string
	Comment  string
}

// GiftEvent reports a gift, possibly mid-streak: streak-capable gifts
// (GiftType 1) are re-emitted with a growing RepeatCount until RepeatEnd
// is set, which carries the final count.
type GiftEvent struct {
	Nickname     string
	GiftName     string
	GiftType     int
	RepeatCount  int
	RepeatEnd    bool
	DiamondCount int
}

// RoomUserEvent reports the current viewer count of the room.
type RoomUserEvent struct {
	ViewerCount int
}

// LikeEvent reports the running like total of the room.
type LikeEvent struct {
	TotalLikeCount int
}

type SocialKind string

const (
	SocialSubscribe SocialKind = "subscribe"
	SocialFollow    SocialKind = "follow"
	SocialShare     SocialKind = "share"
)

// SocialEvent reports a viewer subscribing to, following, or sharing
// the stream.
type SocialEvent struct {
	Nickname string
	Kind     SocialKind
}

func (ChatEvent) eventKind() string     { return "chat" }
func (GiftEvent) eventKind() string     { return "gift" }
func (RoomUserEvent) eventKind() string { return "roomUser" }
func (LikeEvent) eventKind() string     { return "like" }
func (SocialEvent) eventKind() string   { return "social" }

// Connector is a live connection to a single streamer's event feed.
//
// Connect blocks until the platform handshake settles and returns nil on
// success. Events yields the feed until the connector is disconnected or
// the feed ends, at which point the channel is closed. Disconnect
// releases upstream resources and is idempotent.
type Connector interface {
	Connect(ctx context.Context) error
	Events() <-chan Event
	Disconnect()
}

// Factory builds a Connector for the given streamer username.
type Factory func(username string) Connector
