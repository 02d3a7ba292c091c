package domain

// Channel is the per-course container for discussion threads. One channel
// exists per course; it is created lazily on first use and never deleted
// from here.
type Channel struct {
	Id     ChannelId `json:"id"`
	Course CourseId  `json:"course"`
}
