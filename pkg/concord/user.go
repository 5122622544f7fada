package concord

// User is a remote user account. Users carry no guild-scoped state; guild
// membership wraps a User inside a Member.
type User struct {
	client *Client

	// ID is the opaque, stable user identifier.
	ID string
	// Username is the account name without discriminator.
	Username string
	// Discriminator disambiguates identical usernames.
	Discriminator string
	// Avatar is the avatar asset hash when set.
	Avatar string
	// Bot reports whether the account is automated.
	Bot bool
}

func newUser(client *Client, raw RawUser) *User {
	return &User{
		client:        client,
		ID:            raw.ID,
		Username:      raw.Username,
		Discriminator: raw.Discriminator,
		Avatar:        raw.Avatar,
		Bot:           raw.Bot,
	}
}

// Tag returns the username#discriminator form.
func (u *User) Tag() string {
	return u.Username + "#" + u.Discriminator
}

// String returns the mention form.
func (u *User) String() string {
	return "<@" + u.ID + ">"
}
