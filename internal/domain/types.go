package domain

type (
	CourseId  = int64
	ChannelId = int64
	ThreadId  = int64
	ReplyId   = int64
	AuthorId  = int64

	ThreadTitle = string
)
