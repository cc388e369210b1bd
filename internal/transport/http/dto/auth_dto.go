package dto

type GoogleAuthRequest struct {
	Code string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthUserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Role        string `json:"role"`
}

type AuthTokensResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresInSec int64            `json:"expires_in_sec"`
	User         AuthUserResponse `json:"user"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
