package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/courseline-dev/courseline/internal/domain"
)

type createReplyRequest struct {
	Thread  domain.ThreadId `json:"thread"`
	Content string          `json:"content"`
}

func (c *APIClient) CreateReply(ctx context.Context, thread domain.ThreadId, content string) (domain.Reply, error) {
	var reply domain.Reply
	resp, err := c.do(ctx, http.MethodPost, "/community/replies/", "create_reply", createReplyRequest{Thread: thread, Content: content})
	if err != nil {
		return reply, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return reply, fail(resp, "post reply")
	}

	if err := decode(resp.Body, &reply); err != nil {
		return reply, err
	}
	return reply, nil
}

// UpvoteReply toggles the viewer's upvote. The response carries the
// authoritative vote state; callers must apply it as-is instead of
// incrementing locally.
func (c *APIClient) UpvoteReply(ctx context.Context, reply domain.ReplyId) (domain.VoteResult, error) {
	var result domain.VoteResult
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/community/replies/%d/upvote/", reply), "upvote_reply", nil)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return result, fail(resp, "upvote reply")
	}

	if err := decode(resp.Body, &result); err != nil {
		return result, err
	}
	return result, nil
}

func (c *APIClient) MarkReplyAccepted(ctx context.Context, reply domain.ReplyId) (domain.AcceptResult, error) {
	var result domain.AcceptResult
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/community/replies/%d/mark_as_accepted/", reply), "mark_reply_accepted", nil)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return result, fail(resp, "mark reply as accepted")
	}

	if err := decode(resp.Body, &result); err != nil {
		return result, err
	}
	return result, nil
}
