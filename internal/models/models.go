package models

import "time"

// FeedDateLayout renders post dates as "02 Jan 2006"
const FeedDateLayout = "02 Jan 2006"

// User represents a registered profile. It carries the password hash and is
// never encoded into a response.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Firstname    string
	Lastname     string
	Email        string
	Location     string
	Biography    string
	ProfilePhoto string
	JoinedOn     time.Time
}

// Post represents a photo posted by a user
type Post struct {
	ID        int64
	Caption   string
	Photo     string
	UserID    int64
	CreatedOn time.Time
}

// FeedEntry is a post joined with its owner's username and like count
type FeedEntry struct {
	Post
	Username string
	Likes    int64
}

// PostView is the public shape of a post in a user's post list
type PostView struct {
	ID        int64     `json:"id"`
	Caption   string    `json:"caption"`
	Photo     string    `json:"photo"`
	UserID    int64     `json:"user_id"`
	CreatedOn time.Time `json:"created_on"`
}

// FeedPost is the public shape of a post in the global feed
type FeedPost struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto"`
	Caption      string `json:"caption"`
	Photo        string `json:"photo"`
	UserID       int64  `json:"user_id"`
	Likes        int64  `json:"likes"`
	CreatedOn    string `json:"created_on"`
}

// View converts a post to its public shape
func (p *Post) View() PostView {
	return PostView{
		ID:        p.ID,
		Caption:   p.Caption,
		Photo:     p.Photo,
		UserID:    p.UserID,
		CreatedOn: p.CreatedOn,
	}
}
