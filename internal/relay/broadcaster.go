package relay

import "go.uber.org/zap"

// Broadcaster fans one message out to every open subscriber of a
// streamer. Delivery is best-effort and independent per subscriber.
type Broadcaster struct {
	logger    *zap.Logger
	directory *Directory
}

func NewBroadcaster(
	logger *zap.Logger,
	directory *Directory,
) *Broadcaster {
	return &Broadcaster{
		logger,
		directory,
	}
}

func (b *Broadcaster) Broadcast(streamer string, message Message) {
	for _, subscriber := range b.directory.SubscribersOf(streamer) {
		if !subscriber.TrySend(message) {
			// Closed or falling behind; the frame is lost for this
			// subscriber only.
			b.logger.Warn("dropping frame for subscriber",
				zap.String("subscriberId", subscriber.Id),
				zap.String("streamer", streamer),
				zap.String("messageType", string(message.MessageType())))
		}
	}
}
