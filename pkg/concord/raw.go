package concord

// The raw tier mirrors the wire shape of remote payloads. Channels, roles,
// and emojis are cached in this shape inside their owning guild and promoted
// to entities on demand; see Guild.Channel and friends for the promotion
// step.

// RawGuild is the denormalized guild payload as received from the remote
// service. Its array fields are replaced by keyed collections during
// State.ApplyGuild.
type RawGuild struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Icon              string        `json:"icon"`
	OwnerID           string        `json:"owner_id"`
	Region            string        `json:"region"`
	AFKChannelID      string        `json:"afk_channel_id"`
	AFKTimeout        int           `json:"afk_timeout"`
	VerificationLevel int           `json:"verification_level"`
	MemberCount       int           `json:"member_count"`
	Large             bool          `json:"large"`
	Channels          []RawChannel  `json:"channels"`
	Roles             []RawRole     `json:"roles"`
	Emojis            []RawEmoji    `json:"emojis"`
	Members           []RawMember   `json:"members"`
	Presences         []RawPresence `json:"presences"`
}

// RawChannel is the wire shape of any channel kind. Guild-kind fields and
// DM-kind fields are both present; Kind selects which are meaningful.
type RawChannel struct {
	ID            string      `json:"id"`
	Kind          ChannelKind `json:"type"`
	GuildID       string      `json:"guild_id"`
	Name          string      `json:"name"`
	Topic         string      `json:"topic"`
	Position      int         `json:"position"`
	NSFW          bool        `json:"nsfw"`
	Bitrate       int         `json:"bitrate"`
	UserLimit     int         `json:"user_limit"`
	ParentID      string      `json:"parent_id"`
	LastMessageID string      `json:"last_message_id"`
	Recipients    []RawUser   `json:"recipients"`
}

// RawRole is the wire shape of a guild role.
type RawRole struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Color       int         `json:"color"`
	Hoist       bool        `json:"hoist"`
	Position    int         `json:"position"`
	Permissions Permissions `json:"permissions"`
	Managed     bool        `json:"managed"`
	Mentionable bool        `json:"mentionable"`
}

// RawEmoji is the wire shape of a guild emoji.
type RawEmoji struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RoleIDs       []string `json:"roles"`
	Managed       bool     `json:"managed"`
	Animated      bool     `json:"animated"`
	RequireColons bool     `json:"require_colons"`
}

// RawUser is the wire shape of a user account.
type RawUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Bot           bool   `json:"bot"`
}

// RawMember is the wire shape of a guild member: a user plus guild-scoped
// state.
type RawMember struct {
	User     RawUser  `json:"user"`
	Nick     string   `json:"nick"`
	RoleIDs  []string `json:"roles"`
	JoinedAt string   `json:"joined_at"`
	Deaf     bool     `json:"deaf"`
	Mute     bool     `json:"mute"`
}

// RawPresence is the wire shape of a member presence update.
type RawPresence struct {
	User   RawUser      `json:"user"`
	Status string       `json:"status"`
	Game   *RawActivity `json:"game"`
}

// RawActivity is the wire shape of a presence activity.
type RawActivity struct {
	Name string `json:"name"`
	Kind int    `json:"type"`
}

// RawMessage is the wire shape of a channel message.
type RawMessage struct {
	ID              string     `json:"id"`
	ChannelID       string     `json:"channel_id"`
	GuildID         string     `json:"guild_id"`
	Author          RawUser    `json:"author"`
	Member          *RawMember `json:"member"`
	Content         string     `json:"content"`
	Timestamp       string     `json:"timestamp"`
	EditedTimestamp string     `json:"edited_timestamp"`
	TTS             bool       `json:"tts"`
	MentionEveryone bool       `json:"mention_everyone"`
	Mentions        []RawUser  `json:"mentions"`
	Nonce           string     `json:"nonce"`
	Pinned          bool       `json:"pinned"`
}
