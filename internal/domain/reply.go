package domain

import "time"

type Reply struct {
	Id          ReplyId   `json:"id"`
	Author      Author    `json:"author"`
	Content     string    `json:"content"`
	IsVerified  bool      `json:"is_verified"`
	IsAccepted  bool      `json:"is_accepted"`
	Upvotes     int       `json:"upvotes"`
	UserUpvoted bool      `json:"user_upvoted"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteResult carries the authoritative vote state after an upvote toggle.
type VoteResult struct {
	Upvotes     int  `json:"upvotes"`
	UserUpvoted bool `json:"user_upvoted"`
}

// AcceptResult carries the authoritative acceptance flag. At most one reply
// per thread is accepted; the backend enforces that, not this client.
type AcceptResult struct {
	IsAccepted bool `json:"is_accepted"`
}
