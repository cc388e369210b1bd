package dto

type MeResponse struct {
	UserID      int64    `json:"user_id"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	University  string   `json:"university,omitempty"`
	Campus      string   `json:"campus,omitempty"`
	Course      string   `json:"course,omitempty"`
	Year        int      `json:"year,omitempty"`
	Age         int      `json:"age,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	LookingFor  string   `json:"looking_for,omitempty"`
	Onboarded   bool     `json:"onboarded"`
}
