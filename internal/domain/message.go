package domain

// Event is one inbound user message from the delivery boundary.
type Event struct {
	SessionID string
	Text      string
	IsCommand bool
}

type MessageKind string

const (
	MessagePrompt MessageKind = "prompt"
	MessageResult MessageKind = "result"
	MessageError  MessageKind = "error"
	MessageInfo   MessageKind = "info"
)

type Message struct {
	Kind   MessageKind `json:"kind"`
	Text   string      `json:"text"`
	Images []string    `json:"images,omitempty"`
}
