package concord

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func applyTestGuild(t *testing.T, client *Client) *Guild {
	t.Helper()

	guild, err := client.State().ApplyGuild(testGuildPayload())
	if err != nil {
		t.Fatalf("apply guild: %v", err)
	}

	return guild
}

func TestChannelMention(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newFakeTransport())
	guild := applyTestGuild(t, client)

	channel, ok := guild.Channel("c1")
	if !ok {
		t.Fatal("expected channel c1")
	}
	if got := channel.String(); got != "<#c1>" {
		t.Fatalf("mention = %q, want <#c1>", got)
	}
}

func TestChannelSendValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		channelID string
		content   string
		wantErr   error
	}{
		{
			name:      "empty content fails before transport",
			channelID: "c1",
			content:   "",
			wantErr:   ErrMissingParameter,
		},
		{
			name:      "voice channel rejects send",
			channelID: "c2",
			content:   "hello",
			wantErr:   ErrChannelKind,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			transport := newFakeTransport()
			client := newTestClient(t, transport)
			guild := applyTestGuild(t, client)

			channel, ok := guild.Channel(testCase.channelID)
			if !ok {
				t.Fatalf("expected channel %s", testCase.channelID)
			}

			_, err := channel.Send(context.Background(), testCase.content)
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("expected %v, got %v", testCase.wantErr, err)
			}
			if transport.callCount() != 0 {
				t.Fatal("expected no transport interaction")
			}
		})
	}
}

func TestDMChannelSendMissingContent(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	client := newTestClient(t, transport)
	dm := newChannel(client, RawChannel{ID: "d2", Kind: ChannelKindDM})

	if _, err := dm.Send(context.Background(), ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if transport.callCount() != 0 {
		t.Fatal("expected no transport interaction")
	}
}

func TestChannelSendBuildsMessage(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPost, "/channels/c1/messages", RawMessage{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Author:    RawUser{ID: "u9", Username: "bot"},
		Content:   "hello",
	})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	channel, _ := guild.Channel("c1")
	message, err := channel.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if message.ID != "m1" || message.Content != "hello" {
		t.Fatalf("unexpected message %+v", message)
	}

	body := transport.lastBody(t)
	if body["content"] != "hello" {
		t.Fatalf("request content = %v", body["content"])
	}
	nonce, _ := body["nonce"].(string)
	if nonce == "" {
		t.Fatal("expected a generated nonce in the request")
	}
}

func TestChannelSendHonorsOptions(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPost, "/channels/c1/messages", RawMessage{
		ID:        "m1",
		ChannelID: "c1",
		Author:    RawUser{ID: "u9"},
	})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	channel, _ := guild.Channel("c1")
	if _, err := channel.Send(context.Background(), "hi", WithNonce("nonce-7"), WithTTS()); err != nil {
		t.Fatalf("send: %v", err)
	}

	body := transport.lastBody(t)
	if body["nonce"] != "nonce-7" {
		t.Fatalf("nonce = %v, want nonce-7", body["nonce"])
	}
	if body["tts"] != true {
		t.Fatal("expected tts flag in request")
	}
}

func TestChannelSendEmbed(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPost, "/channels/c1/messages", RawMessage{
		ID:        "m2",
		ChannelID: "c1",
		Author:    RawUser{ID: "u9"},
	})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)
	channel, _ := guild.Channel("c1")

	if _, err := channel.SendEmbed(context.Background(), nil); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter for nil embed, got %v", err)
	}

	embed := &Embed{Title: "status", Description: "all clear", Color: 0x00AE86}
	if _, err := channel.SendEmbed(context.Background(), embed); err != nil {
		t.Fatalf("send embed: %v", err)
	}

	body := transport.lastBody(t)
	sent, ok := body["embed"].(map[string]any)
	if !ok {
		t.Fatalf("expected embed object in request, got %T", body["embed"])
	}
	if sent["title"] != "status" {
		t.Fatalf("embed title = %v", sent["title"])
	}
}

func TestSetBitrateReconcilesBothCaches(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPatch, "/channels/c2", RawChannel{
		ID:      "c2",
		Kind:    ChannelKindVoice,
		GuildID: "g1",
		Name:    "war-room",
		Bitrate: 96000,
	})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	stale, _ := guild.Channel("c2")

	fresh, err := stale.SetBitrate(context.Background(), 96000)
	if err != nil {
		t.Fatalf("set bitrate: %v", err)
	}
	if fresh.Bitrate != 96000 {
		t.Fatalf("fresh bitrate = %d, want 96000", fresh.Bitrate)
	}

	registered, ok := client.Channel("c2")
	if !ok || registered.Bitrate != 96000 {
		t.Fatal("expected client-wide registry to hold the fresh channel")
	}
	raw, ok := guild.RawChannel("c2")
	if !ok || raw.Bitrate != 96000 {
		t.Fatal("expected guild collection to hold the fresh payload")
	}

	// The superseded instance is a detached snapshot.
	if stale.Bitrate != 64000 {
		t.Fatalf("stale snapshot mutated: bitrate = %d", stale.Bitrate)
	}
}

func TestSetBitrateKindAndParameterGuards(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	text, _ := guild.Channel("c1")
	if _, err := text.SetBitrate(context.Background(), 64000); !errors.Is(err, ErrChannelKind) {
		t.Fatalf("expected ErrChannelKind, got %v", err)
	}

	voice, _ := guild.Channel("c2")
	if _, err := voice.SetBitrate(context.Background(), 0); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if transport.callCount() != 0 {
		t.Fatal("expected no transport interaction")
	}
}

func TestSetBitrateFailureLeavesCachesUntouched(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.fail(http.MethodPatch, "/channels/c2", &fakeStatusError{status: http.StatusForbidden})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	voice, _ := guild.Channel("c2")
	_, err := voice.SetBitrate(context.Background(), 128000)
	if !errors.Is(err, ErrMissingPermissions) {
		t.Fatalf("expected ErrMissingPermissions, got %v", err)
	}

	raw, _ := guild.RawChannel("c2")
	if raw.Bitrate != 64000 {
		t.Fatalf("guild cache mutated on failure: bitrate = %d", raw.Bitrate)
	}
	registered, _ := client.Channel("c2")
	if registered.Bitrate != 64000 {
		t.Fatalf("registry mutated on failure: bitrate = %d", registered.Bitrate)
	}
}

func TestSetUserLimit(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodPatch, "/channels/c2", RawChannel{
		ID:        "c2",
		Kind:      ChannelKindVoice,
		GuildID:   "g1",
		UserLimit: 5,
	})
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	voice, _ := guild.Channel("c2")
	fresh, err := voice.SetUserLimit(context.Background(), 5)
	if err != nil {
		t.Fatalf("set user limit: %v", err)
	}
	if fresh.UserLimit != 5 {
		t.Fatalf("user limit = %d, want 5", fresh.UserLimit)
	}
	body := transport.lastBody(t)
	if body["user_limit"] != float64(5) {
		t.Fatalf("request user_limit = %v", body["user_limit"])
	}
}

func TestGroupDMRecipients(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	transport.respond(http.MethodGet, "/channels/d1", RawChannel{
		ID:   "d1",
		Kind: ChannelKindGroupDM,
		Recipients: []RawUser{
			{ID: "u1", Username: "griffith"},
		},
	})
	transport.respond(http.MethodPut, "/channels/d1/recipients/u2", RawChannel{
		ID:   "d1",
		Kind: ChannelKindGroupDM,
		Recipients: []RawUser{
			{ID: "u1", Username: "griffith"},
			{ID: "u2", Username: "guts"},
		},
	})
	client := newTestClient(t, transport)

	channel, err := client.FetchChannel(context.Background(), "d1")
	if err != nil {
		t.Fatalf("fetch channel: %v", err)
	}
	if !channel.IsDirect() {
		t.Fatal("expected direct channel")
	}

	fresh, err := channel.AddRecipient(context.Background(), "u2", "grant-token", "berserker")
	if err != nil {
		t.Fatalf("add recipient: %v", err)
	}
	if fresh.Recipients.Len() != 2 {
		t.Fatalf("recipients = %d, want 2", fresh.Recipients.Len())
	}
	if channel.Recipients.Len() != 1 {
		t.Fatal("stale snapshot mutated")
	}

	registered, _ := client.Channel("d1")
	if registered != fresh {
		t.Fatal("expected registry reconciled with fresh channel")
	}

	body := transport.lastBody(t)
	if body["access_token"] != "grant-token" || body["nick"] != "berserker" {
		t.Fatalf("unexpected recipient request body %v", body)
	}
}

func TestAddRecipientValidation(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport()
	client := newTestClient(t, transport)
	guild := applyTestGuild(t, client)

	text, _ := guild.Channel("c1")
	if _, err := text.AddRecipient(context.Background(), "u5", "", ""); !errors.Is(err, ErrChannelKind) {
		t.Fatalf("expected ErrChannelKind, got %v", err)
	}
	if _, err := text.AddRecipient(context.Background(), "", "", ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if transport.callCount() != 0 {
		t.Fatal("expected no transport interaction")
	}
}
