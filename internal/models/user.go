package models

// User is one registered account. PasswordHash never serializes.
type User struct {
	ID             int64  `json:"id"`
	UserName       string `json:"userName"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	ProfilePicture string `json:"profilePicture"`
}

// Profile is the sanitized view returned on login: no id, no hash, just the
// public fields plus follower/following counts.
type Profile struct {
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// Profile builds the sanitized login view for u with the given counts.
func (u *User) Profile(followers, following int) Profile {
	return Profile{
		UserName:  u.UserName,
		Email:     u.Email,
		Followers: followers,
		Following: following,
	}
}
