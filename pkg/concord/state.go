package concord

import (
	"fmt"
	"log/slog"
	"sync"
)

// EntityKind names a cached entity category for removal notifications.
type EntityKind string

const (
	// EntityKindGuild identifies guild registry entries.
	EntityKindGuild EntityKind = "guild"
	// EntityKindChannel identifies channel cache entries.
	EntityKindChannel EntityKind = "channel"
	// EntityKindRole identifies guild role cache entries.
	EntityKindRole EntityKind = "role"
	// EntityKindPresence identifies presence registry entries.
	EntityKindPresence EntityKind = "presence"
)

// Removal describes one explicit cache eviction. Removals are delivered to
// the hook configured with WithRemovalHook after the caches have been
// updated.
type Removal struct {
	// Kind is the evicted entity's category.
	Kind EntityKind
	// GuildID is the owning guild's ID when the entity was guild-scoped.
	GuildID string
	// ID is the evicted entity's ID.
	ID string
}

// State owns the client-wide registries and every guild-local collection.
//
// All writes that span more than one cache -- normalization fan-out, dual-
// cache mutator reconciliation, evictions -- run inside a single critical
// section, so the registries and the per-guild collections never observe
// each other mid-update.
type State struct {
	client  *Client
	logger  *slog.Logger
	removal func(Removal)

	mu        sync.RWMutex
	guilds    *Collection[*Guild]
	channels  *Collection[*Channel]
	presences *Collection[*Presence]
}

func newState(client *Client, logger *slog.Logger, removal func(Removal)) *State {
	return &State{
		client:    client,
		logger:    logger,
		removal:   removal,
		guilds:    NewCollection[*Guild](),
		channels:  NewCollection[*Channel](),
		presences: NewCollection[*Presence](),
	}
}

// Guild returns the registered guild for id.
func (s *State) Guild(id string) (*Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.guilds.Get(id)
}

// GuildIDs returns the registered guild IDs in insertion order.
func (s *State) GuildIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.guilds.Keys()
}

// Channel returns the registered channel entity for id.
func (s *State) Channel(id string) (*Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.channels.Get(id)
}

// ChannelIDs returns the registered channel IDs in insertion order.
func (s *State) ChannelIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.channels.Keys()
}

// Presence returns the registered presence for userID.
func (s *State) Presence(userID string) (*Presence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.presences.Get(userID)
}

// PresenceIDs returns the registered presence user IDs in insertion order.
func (s *State) PresenceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.presences.Keys()
}

// ApplyGuild normalizes one raw guild payload into the cached,
// cross-referenced form and registers the result.
//
// Channels, roles, and emojis land in fresh guild-local collections at the
// raw tier, keyed by ID. Members are promoted to entities keyed by their
// user ID, resolving the owning guild lazily by ID. Presences are promoted
// and registered in both the guild-local map and the client-wide presence
// registry; channels are additionally promoted into the client-wide channel
// registry. The whole run is one critical section, and applying the same
// payload twice yields equivalent collections.
//
// Payloads missing required identity fields fail fast with ErrInvalidPayload
// and leave every cache untouched.
func (s *State) ApplyGuild(raw *RawGuild) (*Guild, error) {
	if err := validateRawGuild(raw); err != nil {
		return nil, err
	}

	guild := &Guild{
		client:            s.client,
		ID:                raw.ID,
		Name:              raw.Name,
		Icon:              raw.Icon,
		OwnerID:           raw.OwnerID,
		Region:            raw.Region,
		AFKChannelID:      raw.AFKChannelID,
		AFKTimeout:        raw.AFKTimeout,
		VerificationLevel: raw.VerificationLevel,
		MemberCount:       raw.MemberCount,
		Large:             raw.Large,
		channels:          NewCollection[RawChannel](),
		roles:             NewCollection[RawRole](),
		emojis:            NewCollection[RawEmoji](),
		members:           NewCollection[*Member](),
		presences:         NewCollection[*Presence](),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rawChannel := range raw.Channels {
		rawChannel.GuildID = raw.ID
		guild.channels.Set(rawChannel.ID, rawChannel)
		s.channels.Set(rawChannel.ID, newChannel(s.client, rawChannel))
	}
	for _, rawRole := range raw.Roles {
		guild.roles.Set(rawRole.ID, rawRole)
	}
	for _, rawEmoji := range raw.Emojis {
		guild.emojis.Set(rawEmoji.ID, rawEmoji)
	}
	for _, rawMember := range raw.Members {
		guild.members.Set(rawMember.User.ID, newMember(s.client, raw.ID, rawMember))
	}
	for _, rawPresence := range raw.Presences {
		presence := newPresence(s.client, rawPresence)
		guild.presences.Set(presence.UserID, presence)
		s.presences.Set(presence.UserID, presence)
	}

	s.guilds.Set(guild.ID, guild)

	s.logger.Debug("applied guild payload",
		"guild_id", guild.ID,
		"channels", guild.channels.Len(),
		"roles", guild.roles.Len(),
		"members", guild.members.Len(),
		"presences", guild.presences.Len(),
	)

	return guild, nil
}

func validateRawGuild(raw *RawGuild) error {
	if raw == nil {
		return fmt.Errorf("%w: nil guild", ErrInvalidPayload)
	}
	if raw.ID == "" {
		return fmt.Errorf("%w: missing guild id", ErrInvalidPayload)
	}
	for i, rawChannel := range raw.Channels {
		if rawChannel.ID == "" {
			return fmt.Errorf("%w: guild %s channel %d missing id", ErrInvalidPayload, raw.ID, i)
		}
	}
	for i, rawRole := range raw.Roles {
		if rawRole.ID == "" {
			return fmt.Errorf("%w: guild %s role %d missing id", ErrInvalidPayload, raw.ID, i)
		}
	}
	for i, rawEmoji := range raw.Emojis {
		if rawEmoji.ID == "" {
			return fmt.Errorf("%w: guild %s emoji %d missing id", ErrInvalidPayload, raw.ID, i)
		}
	}
	for i, rawMember := range raw.Members {
		if rawMember.User.ID == "" {
			return fmt.Errorf("%w: guild %s member %d missing user id", ErrInvalidPayload, raw.ID, i)
		}
	}
	for i, rawPresence := range raw.Presences {
		if rawPresence.User.ID == "" {
			return fmt.Errorf("%w: guild %s presence %d missing user id", ErrInvalidPayload, raw.ID, i)
		}
	}

	return nil
}

// reconcileChannel overwrites every cache holding a stale copy of the
// channel with data from a fresh raw payload: the entity-tier client
// registry always, and the owning guild's raw-tier map when the guild is
// cached. Both writes share one critical section.
func (s *State) reconcileChannel(raw RawChannel) (*Channel, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("%w: missing channel id", ErrInvalidPayload)
	}

	fresh := newChannel(s.client, raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels.Set(raw.ID, fresh)
	if raw.GuildID != "" {
		if guild, ok := s.guilds.Get(raw.GuildID); ok {
			guild.channels.Set(raw.ID, raw)
		} else {
			s.logger.Debug("reconciled channel for uncached guild",
				"channel_id", raw.ID, "guild_id", raw.GuildID)
		}
	}

	return fresh, nil
}

// replaceGuildRoles rebuilds a guild's role collection wholesale from a
// batch response and returns the promoted entity-tier collection. Previously
// promoted Role instances remain valid stale snapshots but are no longer
// reachable through the guild.
func (s *State) replaceGuildRoles(guildID string, raws []RawRole) (*Collection[*Role], error) {
	for i, raw := range raws {
		if raw.ID == "" {
			return nil, fmt.Errorf("%w: role %d missing id", ErrInvalidPayload, i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.guilds.Get(guildID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGuild, guildID)
	}

	rebuilt := NewCollection[RawRole]()
	promoted := NewCollection[*Role]()
	for _, raw := range raws {
		rebuilt.Set(raw.ID, raw)
		promoted.Set(raw.ID, newRole(s.client, guildID, raw))
	}
	guild.roles = rebuilt

	return promoted, nil
}

// RemoveRole evicts one role from its owning guild's collection and reports
// whether an entry existed.
func (s *State) RemoveRole(guildID, roleID string) bool {
	s.mu.Lock()
	guild, ok := s.guilds.Get(guildID)
	removed := ok && guild.roles.Delete(roleID)
	s.mu.Unlock()

	if removed {
		s.notifyRemoval(Removal{Kind: EntityKindRole, GuildID: guildID, ID: roleID})
	}

	return removed
}

// RemoveChannel evicts one channel from the client-wide registry and, for
// guild channels, from the owning guild's collection. Both evictions share
// one critical section.
func (s *State) RemoveChannel(id string) bool {
	s.mu.Lock()
	channel, ok := s.channels.Get(id)
	removed := s.channels.Delete(id)
	guildID := ""
	if ok && channel.GuildID != "" {
		guildID = channel.GuildID
		if guild, found := s.guilds.Get(guildID); found {
			if guild.channels.Delete(id) {
				removed = true
			}
		}
	}
	s.mu.Unlock()

	if removed {
		s.notifyRemoval(Removal{Kind: EntityKindChannel, GuildID: guildID, ID: id})
	}

	return removed
}

// RemovePresence evicts one presence from the client-wide registry and from
// every cached guild holding it.
func (s *State) RemovePresence(userID string) bool {
	s.mu.Lock()
	removed := s.presences.Delete(userID)
	for _, guild := range s.guilds.Values() {
		if guild.presences.Delete(userID) {
			removed = true
		}
	}
	s.mu.Unlock()

	if removed {
		s.notifyRemoval(Removal{Kind: EntityKindPresence, ID: userID})
	}

	return removed
}

// RemoveGuild evicts one guild along with its channels and presences from
// the client-wide registries, keeping the registries equal to the union of
// the remaining guilds' collections.
func (s *State) RemoveGuild(id string) bool {
	s.mu.Lock()
	guild, ok := s.guilds.Get(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	for _, channelID := range guild.channels.Keys() {
		s.channels.Delete(channelID)
	}
	for _, userID := range guild.presences.Keys() {
		s.presences.Delete(userID)
	}
	s.guilds.Delete(id)
	s.mu.Unlock()

	s.notifyRemoval(Removal{Kind: EntityKindGuild, ID: id})

	return true
}

// notifyRemoval runs the configured removal hook outside the State lock so
// the hook can safely read back into the caches.
func (s *State) notifyRemoval(removal Removal) {
	if s.removal == nil {
		return
	}
	s.removal(removal)
}

// userByID finds a cached account by scanning member collections in guild
// registration order.
func (s *State) userByID(userID string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, guild := range s.guilds.Values() {
		if member, ok := guild.members.Get(userID); ok {
			return member.User, true
		}
	}

	return nil, false
}
