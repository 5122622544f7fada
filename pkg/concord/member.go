package concord

import "time"

// Member wraps a User plus guild-scoped state. The owning guild is held by
// ID and resolved through the client's guild registry on demand, so a Member
// can be constructed while its guild payload is still being normalized.
type Member struct {
	client  *Client
	guildID string

	// User is the wrapped account.
	User *User
	// Nick is the guild-scoped display name override when set.
	Nick string
	// RoleIDs lists the member's guild role IDs.
	RoleIDs []string
	// JoinedAt is when the member joined the guild, zero when the payload
	// carried no parseable timestamp.
	JoinedAt time.Time
	// Deaf reports server-side voice deafening.
	Deaf bool
	// Mute reports server-side voice muting.
	Mute bool
}

func newMember(client *Client, guildID string, raw RawMember) *Member {
	joinedAt, _ := time.Parse(time.RFC3339, raw.JoinedAt)

	roleIDs := make([]string, len(raw.RoleIDs))
	copy(roleIDs, raw.RoleIDs)

	return &Member{
		client:   client,
		guildID:  guildID,
		User:     newUser(client, raw.User),
		Nick:     raw.Nick,
		RoleIDs:  roleIDs,
		JoinedAt: joinedAt,
		Deaf:     raw.Deaf,
		Mute:     raw.Mute,
	}
}

// GuildID returns the owning guild's ID.
func (m *Member) GuildID() string {
	return m.guildID
}

// Guild resolves the owning guild through the client's canonical registry.
func (m *Member) Guild() (*Guild, bool) {
	return m.client.Guild(m.guildID)
}

// DisplayName returns the nick when set, otherwise the username.
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}

	return m.User.Username
}

// HasRole reports whether the member carries the given role ID.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}

	return false
}
