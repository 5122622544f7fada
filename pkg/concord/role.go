package concord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Role is a guild role. The owning guild is held by ID and resolved through
// the client's guild registry on demand.
type Role struct {
	client  *Client
	guildID string

	// ID is the opaque, stable role identifier.
	ID string
	// Name is the role display name.
	Name string
	// Color is the role color as an RGB integer.
	Color int
	// Hoisted reports whether members are listed separately.
	Hoisted bool
	// Position is the role's slot in the guild role order.
	Position int
	// Permissions is the role's permission bit set.
	Permissions Permissions
	// Managed reports whether an integration owns the role.
	Managed bool
	// Mentionable reports whether the role can be mentioned.
	Mentionable bool
}

func newRole(client *Client, guildID string, raw RawRole) *Role {
	return &Role{
		client:      client,
		guildID:     guildID,
		ID:          raw.ID,
		Name:        raw.Name,
		Color:       raw.Color,
		Hoisted:     raw.Hoist,
		Position:    raw.Position,
		Permissions: raw.Permissions,
		Managed:     raw.Managed,
		Mentionable: raw.Mentionable,
	}
}

// GuildID returns the owning guild's ID.
func (r *Role) GuildID() string {
	return r.guildID
}

// Guild resolves the owning guild through the client's canonical registry.
func (r *Role) Guild() (*Guild, bool) {
	return r.client.Guild(r.guildID)
}

// PermissionNames returns the decoded names of the role's permission bits.
func (r *Role) PermissionNames() []string {
	return r.Permissions.Names()
}

// String returns the mention form.
func (r *Role) String() string {
	return "<@&" + r.ID + ">"
}

// Delete removes the role remotely, then evicts it from the owning guild's
// role collection. The cache is only touched after the remote write succeeds.
func (r *Role) Delete(ctx context.Context, reason string) error {
	path := "/guilds/" + r.guildID + "/roles/" + r.ID
	body := map[string]any{}
	if reason != "" {
		body["reason"] = reason
	}
	if _, err := r.client.do(ctx, http.MethodDelete, path, body); err != nil {
		return fmt.Errorf("delete role %s: %w", r.ID, err)
	}
	r.client.state.RemoveRole(r.guildID, r.ID)

	return nil
}

// SetPosition moves the role to the given slot. The remote service answers
// with the full reordered role list; the owning guild's role collection is
// replaced wholesale from that batch and a fresh entity-tier collection is
// returned. Role instances held by the caller remain valid stale snapshots.
func (r *Role) SetPosition(ctx context.Context, position int) (*Collection[*Role], error) {
	path := "/guilds/" + r.guildID + "/roles"
	data, err := r.client.do(ctx, http.MethodPatch, path, map[string]any{
		"id":       r.ID,
		"position": position,
	})
	if err != nil {
		return nil, fmt.Errorf("set position of role %s: %w", r.ID, err)
	}

	var raws []RawRole
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("set position of role %s: decode response: %w", r.ID, err)
	}

	roles, err := r.client.state.replaceGuildRoles(r.guildID, raws)
	if err != nil {
		return nil, fmt.Errorf("set position of role %s: %w", r.ID, err)
	}

	return roles, nil
}
