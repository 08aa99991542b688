package models

// Event is pushed to connected websocket clients when someone interacts with them.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

const (
	EventConnected   = "connected"
	EventPostLiked   = "post_liked"
	EventNewFollower = "new_follower"
	EventNewComment  = "new_comment"
)
