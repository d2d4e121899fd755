package api

// Post is the JSON form of a submitted post. Blob references are rendered as
// URLs under /data and omitted when absent.
type Post struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url,omitempty"`
}
