package concord

// Presence is a member's online status snapshot. Presences are keyed by user
// ID in both the owning guild's collection and the client-wide registry; the
// same instance is shared between the two, which is safe because presences
// are immutable after construction.
type Presence struct {
	client *Client

	// UserID identifies the user this presence belongs to.
	UserID string
	// Status is the textual status (online, idle, dnd, offline).
	Status string
	// Activity is the current activity name, empty when none.
	Activity string
	// ActivityKind is the platform activity type code.
	ActivityKind int
}

func newPresence(client *Client, raw RawPresence) *Presence {
	presence := &Presence{
		client: client,
		UserID: raw.User.ID,
		Status: raw.Status,
	}
	if raw.Game != nil {
		presence.Activity = raw.Game.Name
		presence.ActivityKind = raw.Game.Kind
	}

	return presence
}

// User resolves the presence's account through the client registries when a
// member entry for it exists in any cached guild.
func (p *Presence) User() (*User, bool) {
	return p.client.state.userByID(p.UserID)
}
