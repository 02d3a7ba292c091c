package domain

import "time"

// ThreadPreview is the summarized feed-row shape of a thread. It is a
// read-only projection; counters go stale until the feed is re-fetched.
type ThreadPreview struct {
	Id         ThreadId    `json:"id"`
	Title      ThreadTitle `json:"title"`
	Author     Author      `json:"author"`
	IsPinned   bool        `json:"is_pinned"`
	ReplyCount int         `json:"reply_count"`
	VoteCount  int         `json:"vote_count"`
	Views      int         `json:"views"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Thread struct {
	Id        ThreadId    `json:"id"`
	Title     ThreadTitle `json:"title"`
	Content   string      `json:"content"`
	Author    Author      `json:"author"`
	IsPinned  bool        `json:"is_pinned"`
	Views     int         `json:"views"`
	CreatedAt time.Time   `json:"created_at"`
	Replies   []Reply     `json:"replies"`
}

// Preview projects the detail into its feed-row shape. Counters the detail
// payload does not carry (vote_count) default to zero.
func (t Thread) Preview() ThreadPreview {
	return ThreadPreview{
		Id:         t.Id,
		Title:      t.Title,
		Author:     t.Author,
		IsPinned:   t.IsPinned,
		ReplyCount: len(t.Replies),
		Views:      t.Views,
		CreatedAt:  t.CreatedAt,
	}
}
