package concord

// Guild owns the per-guild entity collections. Channels, roles, and emojis
// are held at the raw tier and promoted on demand; members and presences are
// full entities keyed by user ID.
//
// The collections are guarded by the client State's lock; all reads go
// through the accessor methods below and all writes happen inside State
// critical sections.
type Guild struct {
	client *Client

	// ID is the opaque, stable guild identifier.
	ID string
	// Name is the guild display name.
	Name string
	// Icon is the icon asset hash when set.
	Icon string
	// OwnerID is the owning user's ID.
	OwnerID string
	// Region is the voice region identifier.
	Region string
	// AFKChannelID is the AFK voice channel ID when configured.
	AFKChannelID string
	// AFKTimeout is the AFK timeout in seconds.
	AFKTimeout int
	// VerificationLevel is the guild verification setting.
	VerificationLevel int
	// MemberCount is the remote-reported member total, which can exceed
	// the number of members present in the payload.
	MemberCount int
	// Large reports whether the remote service considers the guild large.
	Large bool

	channels  *Collection[RawChannel]
	roles     *Collection[RawRole]
	emojis    *Collection[RawEmoji]
	members   *Collection[*Member]
	presences *Collection[*Presence]
}

// RawChannel returns the cached raw payload for one channel.
func (g *Guild) RawChannel(id string) (RawChannel, bool) {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.channels.Get(id)
}

// Channel promotes the cached raw payload for one channel to the entity
// tier. The promoted instance is built fresh on every call.
func (g *Guild) Channel(id string) (*Channel, bool) {
	g.client.state.mu.RLock()
	raw, ok := g.channels.Get(id)
	g.client.state.mu.RUnlock()
	if !ok {
		return nil, false
	}

	return newChannel(g.client, raw), true
}

// ChannelIDs returns the cached channel IDs in insertion order.
func (g *Guild) ChannelIDs() []string {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.channels.Keys()
}

// RawRole returns the cached raw payload for one role.
func (g *Guild) RawRole(id string) (RawRole, bool) {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.roles.Get(id)
}

// Role promotes the cached raw payload for one role to the entity tier.
func (g *Guild) Role(id string) (*Role, bool) {
	g.client.state.mu.RLock()
	raw, ok := g.roles.Get(id)
	g.client.state.mu.RUnlock()
	if !ok {
		return nil, false
	}

	return newRole(g.client, g.ID, raw), true
}

// RoleIDs returns the cached role IDs in insertion order.
func (g *Guild) RoleIDs() []string {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.roles.Keys()
}

// Roles promotes every cached role to the entity tier, in insertion order.
func (g *Guild) Roles() []*Role {
	g.client.state.mu.RLock()
	raws := g.roles.Values()
	g.client.state.mu.RUnlock()

	roles := make([]*Role, 0, len(raws))
	for _, raw := range raws {
		roles = append(roles, newRole(g.client, g.ID, raw))
	}

	return roles
}

// RawEmoji returns the cached raw payload for one emoji.
func (g *Guild) RawEmoji(id string) (RawEmoji, bool) {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.emojis.Get(id)
}

// EmojiIDs returns the cached emoji IDs in insertion order.
func (g *Guild) EmojiIDs() []string {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.emojis.Keys()
}

// Member returns the cached member for one user ID.
func (g *Guild) Member(userID string) (*Member, bool) {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.members.Get(userID)
}

// Members returns the cached members in insertion order.
func (g *Guild) Members() []*Member {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.members.Values()
}

// MemberIDs returns the cached member user IDs in insertion order.
func (g *Guild) MemberIDs() []string {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.members.Keys()
}

// Presence returns the cached presence for one user ID.
func (g *Guild) Presence(userID string) (*Presence, bool) {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.presences.Get(userID)
}

// PresenceIDs returns the cached presence user IDs in insertion order.
func (g *Guild) PresenceIDs() []string {
	g.client.state.mu.RLock()
	defer g.client.state.mu.RUnlock()

	return g.presences.Keys()
}
