package dto

type CandidateResponse struct {
	UserID      int64    `json:"user_id"`
	DisplayName string   `json:"display_name"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	University  string   `json:"university,omitempty"`
	Campus      string   `json:"campus,omitempty"`
	Course      string   `json:"course,omitempty"`
	Year        int      `json:"year,omitempty"`
	Age         int      `json:"age,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	LookingFor  string   `json:"looking_for,omitempty"`
}

type FeedResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}
