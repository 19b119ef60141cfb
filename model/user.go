package model

// User is the account document shape. Birthday lives under up to three
// legacy field names depending on which app version wrote the profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Realname string `json:"realname,omitempty"`
	Name     string `json:"name,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	Birth    string `json:"birth,omitempty"`
	DOB      string `json:"dob,omitempty"`

	CreationIDList        []string `json:"creationIdList"`
	LibraryBookIDList     []string `json:"libraryBookIdList"`
	ReviewIDList          []string `json:"reviewIdList"`
	CurrentBookID         string   `json:"currentBookId,omitempty"`
	CurrentBookChapterNum int      `json:"currentBookChapterNum,omitempty"`

	// NotificationList entries are encoded "text~ISO-time" strings.
	NotificationList []string `json:"notificationList"`

	// Provider is "google" for sessions created through Google sign-in.
	Provider string `json:"provider,omitempty"`
}

// DisplayName prefers the profile name over the login username.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
