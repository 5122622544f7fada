package concord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"concord/internal/rest"
)

const defaultRequestTimeout = 15 * time.Second

// Transport is the remote-call collaborator consumed by the object model.
//
// Request issues one HTTP-like call and returns the raw response body.
// Failures should expose an HTTPStatus() int when the call reached the
// remote service; the core inspects only the permission-denied value and
// treats every other failure as opaque. Retry and backoff live behind this
// boundary, not in the core.
type Transport interface {
	Request(ctx context.Context, method, path string, body any) ([]byte, error)
}

// Client is the root of the object model. It owns the entity State, the
// transport collaborator, and the credential; every entity holds a
// non-owning back-reference to it for issuing further calls.
type Client struct {
	token     string
	logger    *slog.Logger
	transport Transport
	timeout   time.Duration
	state     *State

	httpClient *http.Client
	baseURL    string
	removal    func(Removal)
}

// Option mutates client configuration.
type Option func(*Client)

// WithLogger injects a structured logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// WithTransport replaces the default REST transport.
func WithTransport(transport Transport) Option {
	return func(client *Client) {
		if transport != nil {
			client.transport = transport
		}
	}
}

// WithTimeout bounds every remote call issued through the client. A call
// that would otherwise never resolve fails with the context deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.timeout = timeout
		}
	}
}

// WithHTTPClient supplies the HTTP client used by the default transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.httpClient = httpClient
		}
	}
}

// WithBaseURL points the default transport at a non-standard API origin.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		if baseURL != "" {
			client.baseURL = baseURL
		}
	}
}

// WithRemovalHook registers a callback fired after any explicit cache
// eviction. The hook runs outside the State lock.
func WithRemovalHook(hook func(Removal)) Option {
	return func(client *Client) {
		client.removal = hook
	}
}

// New creates a client for the given credential.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token", ErrMissingParameter)
	}

	client := &Client{
		token:   token,
		logger:  slog.Default(),
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.state = newState(client, client.logger, client.removal)

	if client.transport == nil {
		restOpts := []rest.Option{
			rest.WithLogger(client.logger),
		}
		if client.httpClient != nil {
			restOpts = append(restOpts, rest.WithHTTPClient(client.httpClient))
		}
		if client.baseURL != "" {
			restOpts = append(restOpts, rest.WithBaseURL(client.baseURL))
		}
		client.transport = rest.New(token, restOpts...)
	}

	return client, nil
}

// State returns the client-wide entity registries.
func (c *Client) State() *State {
	return c.state
}

// Guild returns the cached guild for id.
func (c *Client) Guild(id string) (*Guild, bool) {
	return c.state.Guild(id)
}

// Channel returns the cached channel for id.
func (c *Client) Channel(id string) (*Channel, bool) {
	return c.state.Channel(id)
}

// Presence returns the cached presence for userID.
func (c *Client) Presence(userID string) (*Presence, bool) {
	return c.state.Presence(userID)
}

// FetchGuild retrieves a guild payload from the remote service and
// normalizes it into the cache.
func (c *Client) FetchGuild(ctx context.Context, id string) (*Guild, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: guild id", ErrMissingParameter)
	}

	data, err := c.do(ctx, http.MethodGet, "/guilds/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch guild %s: %w", id, err)
	}

	var raw RawGuild
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fetch guild %s: decode response: %w", id, err)
	}

	guild, err := c.state.ApplyGuild(&raw)
	if err != nil {
		return nil, fmt.Errorf("fetch guild %s: %w", id, err)
	}

	return guild, nil
}

// FetchChannel retrieves a channel payload from the remote service and
// reconciles it into the cache.
func (c *Client) FetchChannel(ctx context.Context, id string) (*Channel, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: channel id", ErrMissingParameter)
	}

	data, err := c.do(ctx, http.MethodGet, "/channels/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", id, err)
	}

	var raw RawChannel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fetch channel %s: decode response: %w", id, err)
	}

	channel, err := c.state.reconcileChannel(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", id, err)
	}

	return channel, nil
}

// FetchUser retrieves a user payload from the remote service. Users carry no
// guild-scoped state and are not cached.
func (c *Client) FetchUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id", ErrMissingParameter)
	}

	data, err := c.do(ctx, http.MethodGet, "/users/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}

	var raw RawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fetch user %s: decode response: %w", id, err)
	}

	return newUser(c, raw), nil
}

// do issues one remote call through the transport collaborator, bounded by
// the configured timeout, and wraps failures into APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := c.transport.Request(ctx, method, path, body)
	if err != nil {
		return nil, newAPIError(method, path, err)
	}

	return data, nil
}

// createMessage posts one message payload and builds the resulting entity.
func (c *Client) createMessage(ctx context.Context, channelID string, body map[string]any) (*Message, error) {
	data, err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", body)
	if err != nil {
		return nil, fmt.Errorf("send message to channel %s: %w", channelID, err)
	}

	return c.messageFromResponse(data, "send message to channel "+channelID)
}

func (c *Client) messageFromResponse(data []byte, operation string) (*Message, error) {
	var raw RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("%s: %w: missing message id", operation, ErrInvalidPayload)
	}

	return newMessage(c, raw), nil
}
