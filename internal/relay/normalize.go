package relay

import "github.com/overlaykit/streamrelay/internal/upstream"

const (
	socialSubscribed = " subscribed!"
	socialFollowed   = " followed!"
	socialShared     = " shared the stream!"
)

// Normalize maps one raw upstream event onto its outbound frame. The
// second return is false for event kinds the relay does not forward.
func Normalize(event upstream.Event) (Message, bool) {
	switch e := event.(type) {
	case upstream.ChatEvent:
		return Chat{
			Type:     TypeChat,
			Username: e.Nickname,
			Message:  e.Comment,
		}, true
	case upstream.GiftEvent:
		// A streak-capable gift with the streak still open is only a
		// transient update; the final repeat count arrives with RepeatEnd.
		phase := GiftEnded
		if e.GiftType == 1 && !e.RepeatEnd {
			phase = GiftInProgress
		}

		return Gift{
			Type:        TypeGift,
			Username:    e.Nickname,
			GiftName:    e.GiftName,
			RepeatCount: e.RepeatCount,
			Value:       e.DiamondCount,
			Message:     phase,
		}, true
	case upstream.RoomUserEvent:
		return ViewerCount{Type: TypeViewerCount, Count: e.ViewerCount}, true
	case upstream.LikeEvent:
		return LikeCount{Type: TypeLikeCount, Count: e.TotalLikeCount}, true
	case upstream.SocialEvent:
		var message string
		switch e.Kind {
		case upstream.SocialSubscribe:
			message = socialSubscribed
		case upstream.SocialFollow:
			message = socialFollowed
		case upstream.SocialShare:
			message = socialShared
		default:
			return nil, false
		}

		return Social{
			Type:     TypeSocial,
			Username: e.Nickname,
			Message:  message,
		}, true
	default:
		return nil, false
	}
}
