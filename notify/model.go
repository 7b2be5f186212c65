package notify

// Channel is a notification channel on the remote API.
type Channel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Topic      string `json:"topic,omitempty"`
	IsPrivate  bool   `json:"is_private"`
	NumMembers int    `json:"num_members,omitempty"`
}

// ChannelPage is one page of a channel listing.
type ChannelPage struct {
	Channels   []Channel `json:"channels"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Message is a delivered notification message.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	Timestamp string `json:"ts,omitempty"`
}

// ListChannelsOptions narrows a channel listing.
type ListChannelsOptions struct {
	Limit  int
	Cursor string
}

type sendMessageRequest struct {
	ChannelID   string `json:"channel_id"`
	Text        string `json:"text"`
	ClientMsgID string `json:"client_msg_id,omitempty"`
}

type apiError struct {
	Err     string `json:"error"`
	Message string `json:"message,omitempty"`
}
