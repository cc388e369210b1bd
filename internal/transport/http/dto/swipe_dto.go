package dto

type SwipeRequest struct {
	// Viewer is optional; when present it must match the
	// authenticated user.
	Viewer    *int64 `json:"viewer,omitempty"`
	TargetID  int64  `json:"target_id"`
	Direction string `json:"direction"`
}

type QuotaResponse struct {
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	ResetAt   string `json:"reset_at,omitempty"`
}

type SwipeResponse struct {
	OK             bool          `json:"ok"`
	Recorded       bool          `json:"recorded"`
	MatchCreated   bool          `json:"match_created"`
	MatchID        int64         `json:"match_id,omitempty"`
	ConversationID int64         `json:"conversation_id,omitempty"`
	Quota          QuotaResponse `json:"quota"`
}
