package relay

// Message is one outbound frame: exactly one JSON object per message,
// discriminated by the "type" field. Frames carry no streamer identity;
// routing is supplied alongside the message at broadcast time.
type Message interface {
	MessageType() MessageType
}

type MessageType string

const (
	TypeConnectedStatus MessageType = "connectedStatus"
	TypeChat            MessageType = "chat"
	TypeGift            MessageType = "gift"
	TypeViewerCount     MessageType = "viewerCount"
	TypeLikeCount       MessageType = "likeCount"
	TypeSocial          MessageType = "social"
)

type ConnectionStatus string

const (
	StatusConnected ConnectionStatus = "connected"
	StatusFailed    ConnectionStatus = "failed"
)

// GiftPhase distinguishes streak updates from the final gift tally.
// Only "ended" frames carry a repeat count safe for accounting.
type GiftPhase string

const (
	GiftInProgress GiftPhase = "in-progress"
	GiftEnded      GiftPhase = "ended"
)

type ConnectedStatus struct {
	Type   MessageType      `json:"type"`
	Status ConnectionStatus `json:"status"`
}

type Chat struct {
	Type     MessageType `json:"type"`
	Username string      `json:"username"`
	Message  string      `json:"message"`
}

type Gift struct {
	Type        MessageType `json:"type"`
	Username    string      `json:"username"`
	GiftName    string      `json:"giftName"`
	RepeatCount int         `json:"repeatCount"`
	Value       int         `json:"value"`
	Message     GiftPhase   `json:"message"`
}

type ViewerCount struct {
	Type  MessageType `json:"type"`
	Count int         `json:"count"`
}

type LikeCount struct {
	Type  MessageType `json:"type"`
	Count int         `json:"count"`
}

type Social struct {
	Type     MessageType `json:"type"`
	Username string      `json:"username"`
	Message  string      `json:"message"`
}

func (m ConnectedStatus) MessageType() MessageType { return m.Type }
func (m Chat) MessageType() MessageType            { return m.Type }
func (m Gift) MessageType() MessageType            { return m.Type }
func (m ViewerCount) MessageType() MessageType     { return m.Type }
func (m LikeCount) MessageType() MessageType       { return m.Type }
func (m Social) MessageType() MessageType          { return m.Type }

func NewConnectedStatus(status ConnectionStatus) ConnectedStatus {
	return ConnectedStatus{Type: TypeConnectedStatus, Status: status}
}
