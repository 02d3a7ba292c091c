package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/domain"
	internal_errors "github.com/courseline-dev/courseline/internal/errors"
	"github.com/courseline-dev/courseline/internal/session"
)

// The client must satisfy the orchestration layer's gateway contract.
var _ discussion.Gateway = (*APIClient)(nil)

// fakeBackend is a minimal in-memory rendition of the discussion API.
type fakeBackend struct {
	router *chi.Mux

	channels []domain.Channel
	threads  map[domain.ThreadId]domain.Thread

	lastAuthHeader string
	lastRequestId  string
	lastSearch     string
	lastBody       map[string]any
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		router:  chi.NewRouter(),
		threads: make(map[domain.ThreadId]domain.Thread),
	}
	b.router.Use(b.capture)

	b.router.Get("/community/channels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.channels)
	})
	b.router.Post("/community/channels/", func(w http.ResponseWriter, r *http.Request) {
		course := int64(b.lastBody["course"].(float64))
		channel := domain.Channel{Id: int64(len(b.channels) + 1), Course: course}
		b.channels = append(b.channels, channel)
		writeJSON(w, http.StatusCreated, channel)
	})
	b.router.Get("/community/channels/{channel}/threads/", func(w http.ResponseWriter, r *http.Request) {
		b.lastSearch = r.URL.Query().Get("search")
		previews := make([]domain.ThreadPreview, 0, len(b.threads))
		for _, t := range b.threads {
			previews = append(previews, t.Preview())
		}
		writeJSON(w, http.StatusOK, previews)
	})
	b.router.Get("/community/threads/{thread}/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "thread"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		thread, ok := b.threads[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, thread)
	})
	b.router.Post("/community/threads/", func(w http.ResponseWriter, r *http.Request) {
		thread := domain.Thread{
			Id:        int64(len(b.threads) + 100),
			Title:     b.lastBody["title"].(string),
			Content:   b.lastBody["content"].(string),
			CreatedAt: time.Now().UTC(),
			Replies:   []domain.Reply{},
		}
		b.threads[thread.Id] = thread
		writeJSON(w, http.StatusCreated, thread)
	})
	b.router.Post("/community/replies/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, domain.Reply{Id: 501, Content: b.lastBody["content"].(string)})
	})
	b.router.Post("/community/replies/{reply}/upvote/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.VoteResult{Upvotes: 7, UserUpvoted: true})
	})
	b.router.Post("/community/replies/{reply}/mark_as_accepted/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.AcceptResult{IsAccepted: true})
	})

	return b
}

// capture records headers and JSON bodies so tests can assert on them.
func (b *fakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.lastAuthHeader = r.Header.Get("Authorization")
		b.lastRequestId = r.Header.Get("X-Request-Id")
		b.lastBody = nil
		if r.Body != nil && r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, token string) (*APIClient, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.router)
	t.Cleanup(server.Close)
	return New(server.URL, session.Static(token)), backend
}

func TestRequestHeaders(t *testing.T) {
	t.Run("bearer token attached when present", func(t *testing.T) {
		client, backend := newTestClient(t, "tok-123")

		_, err := client.ListChannels(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-123", backend.lastAuthHeader)
		assert.NotEmpty(t, backend.lastRequestId)
	})

	t.Run("absent token sends unauthenticated request", func(t *testing.T) {
		client, backend := newTestClient(t, "")

		_, err := client.ListChannels(context.Background())
		require.NoError(t, err)

		assert.Empty(t, backend.lastAuthHeader)
	})
}

func TestChannels(t *testing.T) {
	client, _ := newTestClient(t, "tok")
	ctx := context.Background()

	channels, err := client.ListChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)

	created, err := client.CreateChannel(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.Course)

	channels, err = client.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, created.Id, channels[0].Id)
}

func TestListThreadsSearchEscaping(t *testing.T) {
	client, backend := newTestClient(t, "tok")

	_, err := client.ListThreads(context.Background(), 1, "how do I & why")
	require.NoError(t, err)

	assert.Equal(t, "how do I & why", backend.lastSearch)
}

func TestThreadLifecycle(t *testing.T) {
	client, _ := newTestClient(t, "tok")
	ctx := context.Background()

	created, err := client.CreateThread(ctx, 1, "How do I...", "I tried X and got Y")
	require.NoError(t, err)
	assert.Equal(t, "How do I...", created.Title)
	assert.Empty(t, created.Replies)

	fetched, err := client.GetThread(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, fetched.Id)
	assert.Equal(t, "I tried X and got Y", fetched.Content)
}

func TestReplyMutations(t *testing.T) {
	client, backend := newTestClient(t, "tok")
	ctx := context.Background()

	reply, err := client.CreateReply(ctx, 100, "have you tried Z?")
	require.NoError(t, err)
	assert.Equal(t, int64(501), reply.Id)
	assert.Equal(t, "have you tried Z?", backend.lastBody["content"])
	assert.Equal(t, float64(100), backend.lastBody["thread"])

	vote, err := client.UpvoteReply(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteResult{Upvotes: 7, UserUpvoted: true}, vote)

	accept, err := client.MarkReplyAccepted(ctx, 501)
	require.NoError(t, err)
	assert.True(t, accept.IsAccepted)
}

func TestErrorMapping(t *testing.T) {
	t.Run("non-success status maps to fixed message", func(t *testing.T) {
		client, _ := newTestClient(t, "tok")

		_, err := client.GetThread(context.Background(), 99)
		require.Error(t, err)

		assert.Equal(t, "Failed to load thread", err.Error())
		assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
	})

	t.Run("transport failure surfaces the transport error", func(t *testing.T) {
		client := New("http://127.0.0.1:1", session.Static(""))

		_, err := client.ListChannels(context.Background())
		require.Error(t, err)

		assert.Equal(t, 0, internal_errors.StatusCode(err))
	})
}
