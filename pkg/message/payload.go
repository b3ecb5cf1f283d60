package message

// Payload is the wire shape accepted by the incoming-webhook endpoint. It is
// derived from a Message and a target channel and is not built directly.
type Payload struct {
	Text        string        `json:"text,omitempty"`
	Channel     string        `json:"channel"`
	Attachments []*Attachment `json:"attachments"`
}

// NewPayload combines a message with a target channel. Text and attachments
// are carried over unchanged; the channel is always present in the payload.
func NewPayload(msg *Message, channel string) *Payload {
	attachments := msg.Attachments
	if attachments == nil {
		attachments = make([]*Attachment, 0)
	}
	return &Payload{
		Text:        msg.Text,
		Channel:     channel,
		Attachments: attachments,
	}
}
