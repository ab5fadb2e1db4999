package domain

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderGithub      = "github"
)

// NotificationSettings holds the per-user notification toggles.
type NotificationSettings struct {
	NewFollower    bool `json:"new_follower" bson:"new_follower"`
	NewPostInGroup bool `json:"new_post_in_group" bson:"new_post_in_group"`
	EventReminder  bool `json:"event_reminder" bson:"event_reminder"`
	DirectMessage  bool `json:"direct_message" bson:"direct_message"`
}

// DefaultNotificationSettings returns the settings applied to every new user.
// Everything starts enabled.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		NewFollower:    true,
		NewPostInGroup: true,
		EventReminder:  true,
		DirectMessage:  true,
	}
}

// User is the authentication-bearing account record. PasswordHash is empty
// for accounts created through a social provider and is never serialized.
type User struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	PasswordHash  string               `json:"-"`
	Role          string               `json:"role"`
	Provider      string               `json:"provider"`
	ProviderID    string               `json:"provider_id,omitempty"`
	EmailVerified bool                 `json:"email_verified"`
	IsActive      bool                 `json:"is_active"`
	ProfileID     string               `json:"profile_id,omitempty"`
	BlockedUsers  []string             `json:"blocked_users,omitempty"`
	BlockedBy     []string             `json:"blocked_by,omitempty"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Sanitized returns a copy of the user safe to hand outside the store
// boundary: the credential hash is stripped unconditionally.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
