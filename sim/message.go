package sim

// Message is a deferred cross-entity notification. Messages queue up during
// a frame and are delivered after the action phase, so senders never observe
// the recipient's reaction in the same phase that produced the message.
type Message struct {
	Recipient EntityKey
	Contents  MessageContents
}

// MessageContents is the closed set of message payloads.
type MessageContents interface {
	isMessage()
}

// MessageItemThrown tells a held item it has been thrown with the given
// launch velocity.
type MessageItemThrown struct {
	XVel float64
	YVel float64
}

// MessageItemDropped tells a held item its holder let go without a throw.
type MessageItemDropped struct{}

// MessageGrabReleased tells a grabbing fighter its victim broke free.
type MessageGrabReleased struct{}

func (MessageItemThrown) isMessage()   {}
func (MessageItemDropped) isMessage()  {}
func (MessageGrabReleased) isMessage() {}
