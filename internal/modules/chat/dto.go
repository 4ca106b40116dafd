package chat

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required,max=2000"`
}

// clientFrame is what a websocket client may send.
type clientFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
}
