package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/courseline-dev/courseline/internal/domain"
)

type createThreadRequest struct {
	Channel domain.ChannelId `json:"channel"`
	Title   string           `json:"title"`
	Content string           `json:"content"`
}

// ListThreads fetches the previews of channel's threads. The search filter
// is applied server-side; an empty query lists everything.
func (c *APIClient) ListThreads(ctx context.Context, channel domain.ChannelId, search string) ([]domain.ThreadPreview, error) {
	path := fmt.Sprintf("/community/channels/%d/threads/", channel)
	if search != "" {
		path = fmt.Sprintf("%s?search=%s", path, url.QueryEscape(search))
	}

	resp, err := c.do(ctx, http.MethodGet, path, "list_threads", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, fail(resp, "load threads")
	}

	var previews []domain.ThreadPreview
	if err := decode(resp.Body, &previews); err != nil {
		return nil, err
	}
	return previews, nil
}

func (c *APIClient) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/community/threads/%d/", id), "get_thread", nil)
	if err != nil {
		return thread, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return thread, fail(resp, "load thread")
	}

	if err := decode(resp.Body, &thread); err != nil {
		return thread, err
	}
	return thread, nil
}

func (c *APIClient) CreateThread(ctx context.Context, channel domain.ChannelId, title, content string) (domain.Thread, error) {
	var thread domain.Thread
	body := createThreadRequest{Channel: channel, Title: title, Content: content}
	resp, err := c.do(ctx, http.MethodPost, "/community/threads/", "create_thread", body)
	if err != nil {
		return thread, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return thread, fail(resp, "create thread")
	}

	if err := decode(resp.Body, &thread); err != nil {
		return thread, err
	}
	return thread, nil
}
