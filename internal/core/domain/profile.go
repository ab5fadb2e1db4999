package domain

import "time"

// Profile is the public persona linked 1:1 to a User. The link is held as
// id-valued foreign keys on both sides (User.ProfileID and Profile.UserID),
// never as object pointers.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	BannerURL   string    `json:"banner_url,omitempty"`
	Interests   []string  `json:"interests"`
	UserID      string    `json:"user_id"`
	Following   []string  `json:"following"`
	Followers   []string  `json:"followers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FollowingCount returns how many profiles this profile follows.
func (p *Profile) FollowingCount() int { return len(p.Following) }

// FollowersCount returns how many profiles follow this profile.
func (p *Profile) FollowersCount() int { return len(p.Followers) }
