package concord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ChannelKind discriminates channel variants sharing the Channel type.
type ChannelKind int

const (
	// ChannelKindText is a guild text channel.
	ChannelKindText ChannelKind = 0
	// ChannelKindDM is a direct conversation between two users.
	ChannelKindDM ChannelKind = 1
	// ChannelKindVoice is a guild voice channel.
	ChannelKindVoice ChannelKind = 2
	// ChannelKindGroupDM is a direct conversation between several users.
	ChannelKindGroupDM ChannelKind = 3
	// ChannelKindCategory is a guild channel grouping.
	ChannelKindCategory ChannelKind = 4
)

// String returns the lowercase kind name.
func (k ChannelKind) String() string {
	switch k {
	case ChannelKindText:
		return "text"
	case ChannelKindDM:
		return "dm"
	case ChannelKindVoice:
		return "voice"
	case ChannelKindGroupDM:
		return "group-dm"
	case ChannelKindCategory:
		return "category"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Channel is the entity tier of a channel of any kind. Guild channels hold
// their owning guild by ID; DM kinds have an empty GuildID and carry a
// recipient collection instead. Instances are immutable snapshots: mutators
// return and cache fresh instances rather than editing fields in place.
type Channel struct {
	client *Client

	// ID is the opaque, stable channel identifier.
	ID string
	// Kind discriminates the channel variant.
	Kind ChannelKind
	// GuildID is the owning guild's ID, empty for DM kinds.
	GuildID string
	// Name is the channel name, empty for DM kinds.
	Name string
	// Topic is the channel topic when set.
	Topic string
	// Position is the channel's slot in the guild channel order.
	Position int
	// NSFW reports the channel's age-restriction flag.
	NSFW bool
	// Bitrate is the voice bitrate, zero for non-voice kinds.
	Bitrate int
	// UserLimit is the voice occupancy cap, zero when unlimited.
	UserLimit int
	// LastMessageID is the ID of the most recent message when known.
	LastMessageID string
	// Recipients maps user ID to recipient for DM kinds. It is built once
	// at construction and must be treated as read-only.
	Recipients *Collection[*User]
}

func newChannel(client *Client, raw RawChannel) *Channel {
	channel := &Channel{
		client:        client,
		ID:            raw.ID,
		Kind:          raw.Kind,
		GuildID:       raw.GuildID,
		Name:          raw.Name,
		Topic:         raw.Topic,
		Position:      raw.Position,
		NSFW:          raw.NSFW,
		Bitrate:       raw.Bitrate,
		UserLimit:     raw.UserLimit,
		LastMessageID: raw.LastMessageID,
		Recipients:    NewCollection[*User](),
	}
	for _, rawUser := range raw.Recipients {
		channel.Recipients.Set(rawUser.ID, newUser(client, rawUser))
	}

	return channel
}

// Guild resolves the owning guild through the client's canonical registry.
// DM kinds have no owning guild and always miss.
func (ch *Channel) Guild() (*Guild, bool) {
	if ch.GuildID == "" {
		return nil, false
	}

	return ch.client.Guild(ch.GuildID)
}

// IsDirect reports whether the channel is a DM or group DM.
func (ch *Channel) IsDirect() bool {
	return ch.Kind == ChannelKindDM || ch.Kind == ChannelKindGroupDM
}

// String returns the mention form.
func (ch *Channel) String() string {
	return "<#" + ch.ID + ">"
}

// Send posts a text message to the channel. Empty content fails with
// ErrMissingParameter before any transport call.
func (ch *Channel) Send(ctx context.Context, content string, opts ...SendOption) (*Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingParameter)
	}
	if !ch.sendable() {
		return nil, fmt.Errorf("%w: send to %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	request := newSendRequest(opts)

	return ch.client.createMessage(ctx, ch.ID, map[string]any{
		"content": content,
		"nonce":   request.nonce,
		"tts":     request.tts,
	})
}

// SendEmbed posts a rich embed to the channel.
func (ch *Channel) SendEmbed(ctx context.Context, embed *Embed, opts ...SendOption) (*Message, error) {
	if embed == nil {
		return nil, fmt.Errorf("%w: embed", ErrMissingParameter)
	}
	if !ch.sendable() {
		return nil, fmt.Errorf("%w: send to %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	request := newSendRequest(opts)

	return ch.client.createMessage(ctx, ch.ID, map[string]any{
		"embed": embed,
		"nonce": request.nonce,
		"tts":   request.tts,
	})
}

func (ch *Channel) sendable() bool {
	switch ch.Kind {
	case ChannelKindText, ChannelKindDM, ChannelKindGroupDM:
		return true
	default:
		return false
	}
}

// SetName renames a guild channel.
func (ch *Channel) SetName(ctx context.Context, name string) (*Channel, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingParameter)
	}
	if ch.IsDirect() {
		return nil, fmt.Errorf("%w: rename %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	return ch.patch(ctx, map[string]any{"name": name})
}

// SetTopic updates a guild channel topic.
func (ch *Channel) SetTopic(ctx context.Context, topic string) (*Channel, error) {
	if ch.IsDirect() {
		return nil, fmt.Errorf("%w: set topic on %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	return ch.patch(ctx, map[string]any{"topic": topic})
}

// SetPosition moves a guild channel to the given slot in the channel order.
func (ch *Channel) SetPosition(ctx context.Context, position int) (*Channel, error) {
	if ch.IsDirect() {
		return nil, fmt.Errorf("%w: reposition %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	return ch.patch(ctx, map[string]any{"position": position})
}

// SetBitrate updates a voice channel's bitrate. On success the fresh channel
// replaces the cached entry in both the owning guild's channel map and the
// client-wide registry in one critical section.
func (ch *Channel) SetBitrate(ctx context.Context, bitrate int) (*Channel, error) {
	if ch.Kind != ChannelKindVoice {
		return nil, fmt.Errorf("%w: set bitrate on %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}
	if bitrate <= 0 {
		return nil, fmt.Errorf("%w: bitrate", ErrMissingParameter)
	}

	return ch.patch(ctx, map[string]any{"bitrate": bitrate})
}

// SetUserLimit updates a voice channel's occupancy cap; zero removes it.
func (ch *Channel) SetUserLimit(ctx context.Context, limit int) (*Channel, error) {
	if ch.Kind != ChannelKindVoice {
		return nil, fmt.Errorf("%w: set user limit on %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: user limit", ErrMissingParameter)
	}

	return ch.patch(ctx, map[string]any{"user_limit": limit})
}

// AddRecipient adds a user to a group DM. accessToken must carry the join
// grant for that user; nick optionally names them inside the group.
func (ch *Channel) AddRecipient(ctx context.Context, userID, accessToken, nick string) (*Channel, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id", ErrMissingParameter)
	}
	if !ch.IsDirect() {
		return nil, fmt.Errorf("%w: add recipient to %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	path := "/channels/" + ch.ID + "/recipients/" + userID
	body := map[string]any{}
	if accessToken != "" {
		body["access_token"] = accessToken
	}
	if nick != "" {
		body["nick"] = nick
	}
	data, err := ch.client.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, fmt.Errorf("add recipient %s to channel %s: %w", userID, ch.ID, err)
	}

	return ch.reconcileFromResponse(data)
}

// RemoveRecipient removes a user from a group DM.
func (ch *Channel) RemoveRecipient(ctx context.Context, userID string) (*Channel, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id", ErrMissingParameter)
	}
	if !ch.IsDirect() {
		return nil, fmt.Errorf("%w: remove recipient from %s channel %s", ErrChannelKind, ch.Kind, ch.ID)
	}

	path := "/channels/" + ch.ID + "/recipients/" + userID
	data, err := ch.client.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, fmt.Errorf("remove recipient %s from channel %s: %w", userID, ch.ID, err)
	}

	return ch.reconcileFromResponse(data)
}

// patch issues one channel settings write and reconciles the response into
// every cache holding the stale entry.
func (ch *Channel) patch(ctx context.Context, body map[string]any) (*Channel, error) {
	data, err := ch.client.do(ctx, http.MethodPatch, "/channels/"+ch.ID, body)
	if err != nil {
		return nil, fmt.Errorf("update channel %s: %w", ch.ID, err)
	}

	return ch.reconcileFromResponse(data)
}

func (ch *Channel) reconcileFromResponse(data []byte) (*Channel, error) {
	var raw RawChannel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("update channel %s: decode response: %w", ch.ID, err)
	}
	fresh, err := ch.client.state.reconcileChannel(raw)
	if err != nil {
		return nil, fmt.Errorf("update channel %s: %w", ch.ID, err)
	}

	return fresh, nil
}
