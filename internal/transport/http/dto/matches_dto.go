package dto

type MatchResponse struct {
	MatchID     int64  `json:"match_id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	University  string `json:"university,omitempty"`
	Course      string `json:"course,omitempty"`
	MatchedAt   string `json:"matched_at"`
}

type MatchesResponse struct {
	Matches []MatchResponse `json:"matches"`
}
