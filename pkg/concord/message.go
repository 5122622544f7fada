package concord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Message is a channel message snapshot. Messages are not held in any
// client-side cache: mutators return fresh instances built from response
// payloads, and the owning channel and guild are resolved by ID through the
// client registries.
type Message struct {
	client *Client

	// ID is the opaque, stable message identifier.
	ID string
	// ChannelID is the owning channel's ID.
	ChannelID string
	// GuildID is the owning guild's ID, empty for DM messages.
	GuildID string
	// Author is the sending account.
	Author *User
	// Member is the sending account's guild membership when the payload
	// carried it.
	Member *Member
	// Content is the message text body.
	Content string
	// Timestamp is when the message was created, zero when unparseable.
	Timestamp time.Time
	// TTS reports text-to-speech delivery.
	TTS bool
	// MentionEveryone reports an @everyone mention.
	MentionEveryone bool
	// Mentions maps user ID to mentioned user. Built once at construction
	// and must be treated as read-only.
	Mentions *Collection[*User]
	// Nonce is the deduplication token the sender supplied, if any.
	Nonce string
	// Pinned reports whether the message is pinned in its channel.
	Pinned bool
}

func newMessage(client *Client, raw RawMessage) *Message {
	timestamp, _ := time.Parse(time.RFC3339, raw.Timestamp)

	message := &Message{
		client:          client,
		ID:              raw.ID,
		ChannelID:       raw.ChannelID,
		GuildID:         raw.GuildID,
		Author:          newUser(client, raw.Author),
		Content:         raw.Content,
		Timestamp:       timestamp,
		TTS:             raw.TTS,
		MentionEveryone: raw.MentionEveryone,
		Mentions:        NewCollection[*User](),
		Nonce:           raw.Nonce,
		Pinned:          raw.Pinned,
	}
	if raw.Member != nil {
		member := *raw.Member
		if member.User.ID == "" {
			member.User = raw.Author
		}
		message.Member = newMember(client, raw.GuildID, member)
	}
	for _, rawUser := range raw.Mentions {
		message.Mentions.Set(rawUser.ID, newUser(client, rawUser))
	}

	return message
}

// Channel resolves the owning channel through the client registry.
func (m *Message) Channel() (*Channel, bool) {
	return m.client.Channel(m.ChannelID)
}

// Guild resolves the owning guild through the client registry. DM messages
// have no guild and always miss.
func (m *Message) Guild() (*Guild, bool) {
	if m.GuildID == "" {
		return nil, false
	}

	return m.client.Guild(m.GuildID)
}

// IsMentioned reports whether the given user is among the message mentions.
func (m *Message) IsMentioned(userID string) bool {
	if m.MentionEveryone {
		return true
	}

	return m.Mentions.Exists(func(user *User) bool {
		return user.ID == userID
	})
}

// Reply posts a new message in the same channel, mentioning the author
// first. Empty content fails with ErrMissingParameter before any transport
// call.
func (m *Message) Reply(ctx context.Context, content string) (*Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingParameter)
	}

	return m.client.createMessage(ctx, m.ChannelID, map[string]any{
		"content": m.Author.String() + ", " + content,
	})
}

// Edit replaces the message content and returns the fresh snapshot built
// from the response payload. The instance Edit was called on is unchanged.
func (m *Message) Edit(ctx context.Context, content string) (*Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingParameter)
	}

	path := "/channels/" + m.ChannelID + "/messages/" + m.ID
	data, err := m.client.do(ctx, http.MethodPatch, path, map[string]any{"content": content})
	if err != nil {
		return nil, fmt.Errorf("edit message %s: %w", m.ID, err)
	}

	return m.client.messageFromResponse(data, "edit message "+m.ID)
}

// Delete removes the message remotely.
func (m *Message) Delete(ctx context.Context, reason string) error {
	path := "/channels/" + m.ChannelID + "/messages/" + m.ID
	body := map[string]any{}
	if reason != "" {
		body["reason"] = reason
	}
	if _, err := m.client.do(ctx, http.MethodDelete, path, body); err != nil {
		return fmt.Errorf("delete message %s: %w", m.ID, err)
	}

	return nil
}

// Pin pins the message in its channel.
func (m *Message) Pin(ctx context.Context) error {
	path := "/channels/" + m.ChannelID + "/pins/" + m.ID
	if _, err := m.client.do(ctx, http.MethodPost, path, nil); err != nil {
		return fmt.Errorf("pin message %s: %w", m.ID, err)
	}

	return nil
}

// Unpin removes the message from its channel's pins.
func (m *Message) Unpin(ctx context.Context) error {
	path := "/channels/" + m.ChannelID + "/pins/" + m.ID
	if _, err := m.client.do(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("unpin message %s: %w", m.ID, err)
	}

	return nil
}

// React adds the client's reaction to the message. emoji is either a unicode
// emoji or a custom emoji token; it is escaped for the request path.
func (m *Message) React(ctx context.Context, emoji string) error {
	if emoji == "" {
		return fmt.Errorf("%w: emoji", ErrMissingParameter)
	}

	path := "/channels/" + m.ChannelID + "/messages/" + m.ID + "/reactions/" + url.PathEscape(emoji) + "/@me"
	if _, err := m.client.do(ctx, http.MethodPut, path, nil); err != nil {
		return fmt.Errorf("react to message %s: %w", m.ID, err)
	}

	return nil
}
