package concord

import "github.com/google/uuid"

// Embed is a rich outbound message payload.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedFooter is the small trailing line of an embed.
type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedAuthor is the attribution header of an embed.
type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedField is one titled value inside an embed body.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type sendRequest struct {
	nonce string
	tts   bool
}

// SendOption mutates outbound message delivery settings.
type SendOption func(*sendRequest)

// WithNonce pins the deduplication nonce instead of generating one.
func WithNonce(nonce string) SendOption {
	return func(request *sendRequest) {
		if nonce != "" {
			request.nonce = nonce
		}
	}
}

// WithTTS marks the message for text-to-speech delivery.
func WithTTS() SendOption {
	return func(request *sendRequest) {
		request.tts = true
	}
}

func newSendRequest(opts []SendOption) sendRequest {
	request := sendRequest{}
	for _, opt := range opts {
		opt(&request)
	}
	if request.nonce == "" {
		request.nonce = uuid.NewString()
	}

	return request
}
