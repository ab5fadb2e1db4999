package handler

type oauthUserRequest struct {
	Email      string `json:"email"       validate:"required,email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	Provider   string `json:"provider"    validate:"required,oneof=google github"`
	ProviderID string `json:"provider_id" validate:"required"`
}

type notificationSettingsRequest struct {
	NewFollower    *bool `json:"new_follower"`
	NewPostInGroup *bool `json:"new_post_in_group"`
	EventReminder  *bool `json:"event_reminder"`
	DirectMessage  *bool `json:"direct_message"`
}
