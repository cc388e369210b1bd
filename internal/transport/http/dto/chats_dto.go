package dto

type ConversationSummaryResponse struct {
	ID              int64  `json:"id"`
	PeerID          int64  `json:"peer_id"`
	PeerName        string `json:"peer_name"`
	PeerPhotoURL    string `json:"peer_photo_url,omitempty"`
	LastMessage     string `json:"last_message,omitempty"`
	LastMessageTime string `json:"last_message_time,omitempty"`
}

type ConversationsResponse struct {
	Conversations []ConversationSummaryResponse `json:"conversations"`
}

type MessageResponse struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}

type ConversationResponse struct {
	ID       int64             `json:"id"`
	PeerID   int64             `json:"peer_id"`
	Messages []MessageResponse `json:"messages"`
}

type SendMessageRequest struct {
	// SenderID is optional; when present it must match the
	// authenticated user.
	SenderID       *int64 `json:"sender_id,omitempty"`
	ConversationID int64  `json:"conversation_id"`
	Body           string `json:"body"`
}

type SendMessageResponse struct {
	OK      bool            `json:"ok"`
	Message MessageResponse `json:"message"`
}
