package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/domain"
	internal_errors "github.com/courseline-dev/courseline/internal/errors"
	"github.com/courseline-dev/courseline/internal/session"
)

// stubGateway is an in-memory discussion backend.
type stubGateway struct {
	mu       sync.Mutex
	channels []domain.Channel
	threads  map[domain.ThreadId]*domain.Thread
	nextId   int64
}

func newStubGateway() *stubGateway {
	return &stubGateway{threads: make(map[domain.ThreadId]*domain.Thread), nextId: 1}
}

func (g *stubGateway) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Channel{}, g.channels...), nil
}

func (g *stubGateway) CreateChannel(ctx context.Context, course domain.CourseId) (domain.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	channel := domain.Channel{Id: g.nextId, Course: course}
	g.nextId++
	g.channels = append(g.channels, channel)
	return channel, nil
}

func (g *stubGateway) ListThreads(ctx context.Context, channel domain.ChannelId, search string) ([]domain.ThreadPreview, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	previews := make([]domain.ThreadPreview, 0, len(g.threads))
	for _, thread := range g.threads {
		if search != "" && !strings.Contains(thread.Title, search) {
			continue
		}
		previews = append(previews, thread.Preview())
	}
	return previews, nil
}

func (g *stubGateway) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	thread, ok := g.threads[id]
	if !ok {
		return domain.Thread{}, internal_errors.New("Failed to load thread", http.StatusNotFound)
	}
	return *thread, nil
}

func (g *stubGateway) CreateThread(ctx context.Context, channel domain.ChannelId, title, content string) (domain.Thread, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	thread := &domain.Thread{
		Id:        g.nextId,
		Title:     title,
		Content:   content,
		Author:    domain.Author{Username: "student"},
		CreatedAt: time.Now().UTC(),
	}
	g.nextId++
	g.threads[thread.Id] = thread
	return *thread, nil
}

func (g *stubGateway) CreateReply(ctx context.Context, threadId domain.ThreadId, content string) (domain.Reply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	thread, ok := g.threads[threadId]
	if !ok {
		return domain.Reply{}, internal_errors.New("Failed to post reply", http.StatusNotFound)
	}
	reply := domain.Reply{Id: g.nextId, Content: content, Author: domain.Author{Username: "helper"}, CreatedAt: time.Now().UTC()}
	g.nextId++
	thread.Replies = append(thread.Replies, reply)
	return reply, nil
}

func (g *stubGateway) UpvoteReply(ctx context.Context, reply domain.ReplyId) (domain.VoteResult, error) {
	return domain.VoteResult{Upvotes: 1, UserUpvoted: true}, nil
}

func (g *stubGateway) MarkReplyAccepted(ctx context.Context, reply domain.ReplyId) (domain.AcceptResult, error) {
	return domain.AcceptResult{IsAccepted: true}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *stubGateway) {
	t.Helper()
	gateway := newStubGateway()
	factory := func() *discussion.Controller {
		return discussion.NewController(gateway, discussion.ControllerConfig{})
	}
	h := New(MustLoadTemplates("templates"), NewSessionRegistry(factory), session.Static(""))
	server := httptest.NewServer(NewRouter(h, []string{"*"}))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}
	return server, client, gateway
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	server, client, _ := newTestServer(t)

	status, body := get(t, client, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestFeedPage(t *testing.T) {
	server, client, _ := newTestServer(t)

	status, body := get(t, client, server.URL+"/courses/42")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "No questions yet")
}

func TestQuestionLifecycle(t *testing.T) {
	server, client, _ := newTestServer(t)
	base := server.URL + "/courses/42"

	// Ask a question; the client follows the redirect to the detail view.
	status, body := postForm(t, client, base+"/threads", url.Values{
		"title":   {"How do I center a div?"},
		"content": {"I tried X and got Y"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "How do I center a div?")
	assert.Contains(t, body, "0 replies")

	// Reply to it.
	status, body = postForm(t, client, base+"/threads/2/replies", url.Values{
		"content": {"Have you tried flexbox?"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Have you tried flexbox?")
	assert.Contains(t, body, "1 replies")

	// The feed shows the new question.
	status, body = get(t, client, base)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "How do I center a div?")
}

func TestCreateThreadValidation(t *testing.T) {
	server, client, gateway := newTestServer(t)

	status, body := postForm(t, client, server.URL+"/courses/42/threads", url.Values{
		"title":   {"   "},
		"content": {"body"},
	})

	// Rejected before the controller: redirected back to the feed with the
	// validation message, and no channel or thread was ever created.
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Title and content are required")
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	assert.Empty(t, gateway.channels)
	assert.Empty(t, gateway.threads)
}

func TestMissingThreadFallsBackToFeed(t *testing.T) {
	server, client, _ := newTestServer(t)

	status, body := get(t, client, server.URL+"/courses/42/threads/999")

	// Redirected to the feed, which shows the controller's error banner.
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Failed to load thread")
}

func TestReplyContentIsSanitized(t *testing.T) {
	server, client, _ := newTestServer(t)
	base := server.URL + "/courses/42"

	_, _ = postForm(t, client, base+"/threads", url.Values{
		"title":   {"XSS check"},
		"content": {"body"},
	})
	status, body := postForm(t, client, base+"/threads/2/replies", url.Values{
		"content": {`<script>alert("pwn")</script>safe text`},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "safe text")
	assert.NotContains(t, body, "<script>")
}

func TestUpvoteAppliesServerValues(t *testing.T) {
	server, client, _ := newTestServer(t)
	base := server.URL + "/courses/42"

	_, _ = postForm(t, client, base+"/threads", url.Values{
		"title":   {"votes"},
		"content": {"body"},
	})
	_, _ = postForm(t, client, base+"/threads/2/replies", url.Values{"content": {"an answer"}})

	status, body := postForm(t, client, base+"/replies/3/upvote", url.Values{})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Upvoted (1)")
}
