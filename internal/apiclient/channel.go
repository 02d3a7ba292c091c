package apiclient

import (
	"context"
	"net/http"

	"github.com/courseline-dev/courseline/internal/domain"
)

type createChannelRequest struct {
	Course domain.CourseId `json:"course"`
}

func (c *APIClient) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	resp, err := c.do(ctx, http.MethodGet, "/community/channels/", "list_channels", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, fail(resp, "load channels")
	}

	var channels []domain.Channel
	if err := decode(resp.Body, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *APIClient) CreateChannel(ctx context.Context, course domain.CourseId) (domain.Channel, error) {
	var channel domain.Channel
	resp, err := c.do(ctx, http.MethodPost, "/community/channels/", "create_channel", createChannelRequest{Course: course})
	if err != nil {
		return channel, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return channel, fail(resp, "create channel")
	}

	if err := decode(resp.Body, &channel); err != nil {
		return channel, err
	}
	return channel, nil
}
