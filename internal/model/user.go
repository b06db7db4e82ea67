package model

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Level     int    `json:"level"`
	XP        uint64 `json:"xp"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type GetUserRequest struct {
	// Optional. The caller's own profile when empty.
	ID string `json:"id"`
}

type GetUserResponse User
