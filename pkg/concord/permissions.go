package concord

// Permissions is the remote service's permission bit set. The decoder here is
// deliberately thin: the permission model itself is a remote concern, the
// client only names the bits it receives.
type Permissions uint64

const (
	PermissionCreateInstantInvite Permissions = 1 << 0
	PermissionKickMembers         Permissions = 1 << 1
	PermissionBanMembers          Permissions = 1 << 2
	PermissionAdministrator       Permissions = 1 << 3
	PermissionManageChannels      Permissions = 1 << 4
	PermissionManageGuild         Permissions = 1 << 5
	PermissionAddReactions        Permissions = 1 << 6
	PermissionViewAuditLog        Permissions = 1 << 7
	PermissionViewChannel         Permissions = 1 << 10
	PermissionSendMessages        Permissions = 1 << 11
	PermissionSendTTSMessages     Permissions = 1 << 12
	PermissionManageMessages      Permissions = 1 << 13
	PermissionEmbedLinks          Permissions = 1 << 14
	PermissionAttachFiles         Permissions = 1 << 15
	PermissionReadMessageHistory  Permissions = 1 << 16
	PermissionMentionEveryone     Permissions = 1 << 17
	PermissionUseExternalEmojis   Permissions = 1 << 18
	PermissionConnect             Permissions = 1 << 20
	PermissionSpeak               Permissions = 1 << 21
	PermissionMuteMembers         Permissions = 1 << 22
	PermissionDeafenMembers       Permissions = 1 << 23
	PermissionMoveMembers         Permissions = 1 << 24
	PermissionChangeNickname      Permissions = 1 << 26
	PermissionManageNicknames     Permissions = 1 << 27
	PermissionManageRoles         Permissions = 1 << 28
	PermissionManageWebhooks      Permissions = 1 << 29
	PermissionManageEmojis        Permissions = 1 << 30
)

var permissionNames = []struct {
	flag Permissions
	name string
}{
	{PermissionCreateInstantInvite, "CREATE_INSTANT_INVITE"},
	{PermissionKickMembers, "KICK_MEMBERS"},
	{PermissionBanMembers, "BAN_MEMBERS"},
	{PermissionAdministrator, "ADMINISTRATOR"},
	{PermissionManageChannels, "MANAGE_CHANNELS"},
	{PermissionManageGuild, "MANAGE_GUILD"},
	{PermissionAddReactions, "ADD_REACTIONS"},
	{PermissionViewAuditLog, "VIEW_AUDIT_LOG"},
	{PermissionViewChannel, "VIEW_CHANNEL"},
	{PermissionSendMessages, "SEND_MESSAGES"},
	{PermissionSendTTSMessages, "SEND_TTS_MESSAGES"},
	{PermissionManageMessages, "MANAGE_MESSAGES"},
	{PermissionEmbedLinks, "EMBED_LINKS"},
	{PermissionAttachFiles, "ATTACH_FILES"},
	{PermissionReadMessageHistory, "READ_MESSAGE_HISTORY"},
	{PermissionMentionEveryone, "MENTION_EVERYONE"},
	{PermissionUseExternalEmojis, "USE_EXTERNAL_EMOJIS"},
	{PermissionConnect, "CONNECT"},
	{PermissionSpeak, "SPEAK"},
	{PermissionMuteMembers, "MUTE_MEMBERS"},
	{PermissionDeafenMembers, "DEAFEN_MEMBERS"},
	{PermissionMoveMembers, "MOVE_MEMBERS"},
	{PermissionChangeNickname, "CHANGE_NICKNAME"},
	{PermissionManageNicknames, "MANAGE_NICKNAMES"},
	{PermissionManageRoles, "MANAGE_ROLES"},
	{PermissionManageWebhooks, "MANAGE_WEBHOOKS"},
	{PermissionManageEmojis, "MANAGE_EMOJIS"},
}

// Has reports whether every bit in flag is set.
func (p Permissions) Has(flag Permissions) bool {
	return p&flag == flag
}

// Names returns the named flags set in p, in bit order.
func (p Permissions) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, entry := range permissionNames {
		if p.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}

	return names
}
