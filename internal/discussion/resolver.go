package discussion

import (
	"context"

	"github.com/courseline-dev/courseline/internal/domain"
)

// Gateway is the remote discussion API surface the orchestration layer
// depends on. Implemented by internal/apiclient.
type Gateway interface {
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	CreateChannel(ctx context.Context, course domain.CourseId) (domain.Channel, error)
	ListThreads(ctx context.Context, channel domain.ChannelId, search string) ([]domain.ThreadPreview, error)
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	CreateThread(ctx context.Context, channel domain.ChannelId, title, content string) (domain.Thread, error)
	CreateReply(ctx context.Context, thread domain.ThreadId, content string) (domain.Reply, error)
	UpvoteReply(ctx context.Context, reply domain.ReplyId) (domain.VoteResult, error)
	MarkReplyAccepted(ctx context.Context, reply domain.ReplyId) (domain.AcceptResult, error)
}

// ChannelResolver guarantees a discussion channel exists for a course,
// creating one on first use. Resolution is idempotent at the backend:
// listing happens first, and when a create does race a concurrent one the
// creation response stays authoritative for the id used in that flow.
type ChannelResolver struct {
	gateway Gateway
}

func NewChannelResolver(gateway Gateway) *ChannelResolver {
	return &ChannelResolver{gateway: gateway}
}

// Lookup finds the course's channel without creating one. ok is false when
// the course has no channel yet.
func (r *ChannelResolver) Lookup(ctx context.Context, course domain.CourseId) (domain.Channel, bool, error) {
	channels, err := r.gateway.ListChannels(ctx)
	if err != nil {
		return domain.Channel{}, false, err
	}
	for _, channel := range channels {
		if channel.Course == course {
			return channel, true, nil
		}
	}
	return domain.Channel{}, false, nil
}

// Resolve returns the course's channel, creating it when absent. It never
// returns a channel belonging to a different course, and never fabricates
// one on failure: errors of either sub-call propagate unchanged.
func (r *ChannelResolver) Resolve(ctx context.Context, course domain.CourseId) (domain.Channel, error) {
	channel, ok, err := r.Lookup(ctx, course)
	if err != nil {
		return domain.Channel{}, err
	}
	if ok {
		return channel, nil
	}
	return r.gateway.CreateChannel(ctx, course)
}
