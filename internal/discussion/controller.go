package discussion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/courseline-dev/courseline/internal/domain"
	"github.com/courseline-dev/courseline/internal/logger"
)

// View is the active screen of the discussion UI.
type View string

const (
	ViewFeed         View = "feed"
	ViewThreadDetail View = "thread_detail"
)

var (
	// ErrEmptyInput rejects blank titles or bodies before any network call.
	// It is returned to the caller, never put in the error banner; the view
	// layer is expected to disable submission of empty forms.
	ErrEmptyInput = errors.New("title and content must not be empty")

	// ErrNoThreadSelected guards reply submission outside the detail view.
	ErrNoThreadSelected = errors.New("no thread selected")
)

const (
	defaultErrorTTL       = 5 * time.Second
	defaultSearchDebounce = 300 * time.Millisecond
)

// ControllerConfig tunes a controller; zero values pick the defaults.
type ControllerConfig struct {
	ErrorTTL       time.Duration
	SearchDebounce time.Duration
	DefaultSort    SortKey
}

// Activity reports which requests are currently in flight. Views use it to
// disable the controls that would start a duplicate request.
type Activity struct {
	LoadingList   bool
	LoadingDetail bool
	Creating      bool
	Replying      bool
}

// Controller owns the view state of one long-lived discussion session and
// reconciles gateway responses into it. Mutations are never applied
// optimistically: local state changes only after server confirmation, so a
// failed call needs no rollback.
type Controller struct {
	gateway  Gateway
	resolver *ChannelResolver

	errorTTL       time.Duration
	searchDebounce time.Duration

	mu          sync.Mutex
	view        View
	threads     []domain.ThreadPreview
	selected    *domain.Thread
	sortKey     SortKey
	searchQuery string
	activity    Activity

	errMsg        string
	errGeneration uint64
	errTimer      *time.Timer

	// Bumped at issue time of every feed refresh; a completion whose
	// generation no longer matches is stale and dropped, giving
	// deterministic latest-wins instead of completion-order wins.
	feedGeneration uint64

	// Single-slot debounce: scheduling a new search discards any pending,
	// not-yet-fired one.
	searchTimer *time.Timer
}

func NewController(gateway Gateway, cfg ControllerConfig) *Controller {
	if cfg.ErrorTTL == 0 {
		cfg.ErrorTTL = defaultErrorTTL
	}
	if cfg.SearchDebounce == 0 {
		cfg.SearchDebounce = defaultSearchDebounce
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = SortRecent
	}
	return &Controller{
		gateway:        gateway,
		resolver:       NewChannelResolver(gateway),
		errorTTL:       cfg.ErrorTTL,
		searchDebounce: cfg.SearchDebounce,
		view:           ViewFeed,
		sortKey:        cfg.DefaultSort,
	}
}

// --- Accessors ---

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Feed returns the previews ordered by the current sort key.
func (c *Controller) Feed() []domain.ThreadPreview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Project(c.threads, c.sortKey)
}

// Previews returns the feed in arrival order, unprojected.
func (c *Controller) Previews() []domain.ThreadPreview {
	c.mu.Lock()
	defer c.mu.Unlock()
	previews := make([]domain.ThreadPreview, len(c.threads))
	copy(previews, c.threads)
	return previews
}

// SelectedThread returns a copy of the open thread, if any.
func (c *Controller) SelectedThread() (domain.Thread, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return domain.Thread{}, false
	}
	thread := *c.selected
	thread.Replies = make([]domain.Reply, len(c.selected.Replies))
	copy(thread.Replies, c.selected.Replies)
	return thread, true
}

func (c *Controller) SortKey() SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey
}

// SetSortKey changes the feed ordering. Purely local: sorting is a
// projection over already-fetched previews.
func (c *Controller) SetSortKey(key SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortKey = key
}

func (c *Controller) SearchQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchQuery
}

func (c *Controller) Activity() Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activity
}

// Error returns the transient banner message, if one is visible.
func (c *Controller) Error() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg, c.errMsg != ""
}

// --- Operations ---

// RefreshFeed resolves the course's channel and reloads the thread list.
// A course with no channel yet is an empty feed, not an error; this is the
// only place an absent resource is treated that way. The refresh does not
// create a channel.
func (c *Controller) RefreshFeed(ctx context.Context, course domain.CourseId, search string) error {
	c.mu.Lock()
	c.searchQuery = search
	c.activity.LoadingList = true
	c.feedGeneration++
	generation := c.feedGeneration
	c.mu.Unlock()

	threads, err := c.fetchFeed(ctx, course, search)

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.feedGeneration {
		// A newer refresh was issued while this one was in flight; its
		// result owns the state now.
		return nil
	}
	c.activity.LoadingList = false
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	c.threads = threads
	return nil
}

func (c *Controller) fetchFeed(ctx context.Context, course domain.CourseId, search string) ([]domain.ThreadPreview, error) {
	channel, ok, err := c.resolver.Lookup(ctx, course)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.ThreadPreview{}, nil
	}
	return c.gateway.ListThreads(ctx, channel.Id, search)
}

// ScheduleSearch (re)schedules a deferred feed refresh. Each keystroke
// replaces the pending timer, so only the query that survives the debounce
// window actually fires.
func (c *Controller) ScheduleSearch(ctx context.Context, course domain.CourseId, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.searchDebounce, func() {
		if err := c.RefreshFeed(ctx, course, query); err != nil {
			logger.Log.Debug("debounced search refresh failed", "course", course, "error", err)
		}
	})
}

// OpenThread fetches the detail and switches to it. On failure the view
// stays on the feed and the current selection is untouched.
func (c *Controller) OpenThread(ctx context.Context, id domain.ThreadId) error {
	c.mu.Lock()
	c.activity.LoadingDetail = true
	c.mu.Unlock()

	thread, err := c.gateway.GetThread(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity.LoadingDetail = false
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	c.selected = &thread
	c.view = ViewThreadDetail
	return nil
}

// CreateThread provisions the course's channel if needed, creates the
// thread and opens it. The created detail is prepended to the in-memory
// feed as a preview projection instead of re-fetching the whole list.
func (c *Controller) CreateThread(ctx context.Context, course domain.CourseId, title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	c.activity.Creating = true
	c.mu.Unlock()

	thread, err := c.createThread(ctx, course, title, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity.Creating = false
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	c.threads = append([]domain.ThreadPreview{thread.Preview()}, c.threads...)
	c.selected = &thread
	c.view = ViewThreadDetail
	return nil
}

func (c *Controller) createThread(ctx context.Context, course domain.CourseId, title, content string) (domain.Thread, error) {
	channel, err := c.resolver.Resolve(ctx, course)
	if err != nil {
		return domain.Thread{}, err
	}
	return c.gateway.CreateThread(ctx, channel.Id, title, content)
}

// SubmitReply posts a reply to the open thread and appends the confirmed
// record to the reply sequence. The matching feed preview's reply_count is
// left stale until the next refresh.
func (c *Controller) SubmitReply(ctx context.Context, content string) error {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return ErrNoThreadSelected
	}
	if strings.TrimSpace(content) == "" {
		c.mu.Unlock()
		return ErrEmptyInput
	}
	thread := c.selected.Id
	c.activity.Replying = true
	c.mu.Unlock()

	reply, err := c.gateway.CreateReply(ctx, thread, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity.Replying = false
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	if c.selected != nil && c.selected.Id == thread {
		c.selected.Replies = append(c.selected.Replies, reply)
	}
	return nil
}

// Upvote toggles the viewer's vote and applies the server's values as-is.
// No local increment: the backend owns toggle semantics, so guessing could
// drift from the authoritative count.
func (c *Controller) Upvote(ctx context.Context, reply domain.ReplyId) error {
	result, err := c.gateway.UpvoteReply(ctx, reply)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	if r := c.replyLocked(reply); r != nil {
		r.Upvotes = result.Upvotes
		r.UserUpvoted = result.UserUpvoted
	}
	return nil
}

// MarkAccepted applies the server's acceptance flag to the matching reply.
// Acceptance on other replies is not cleared locally; single-acceptance is
// the backend's invariant to enforce.
func (c *Controller) MarkAccepted(ctx context.Context, reply domain.ReplyId) error {
	result, err := c.gateway.MarkReplyAccepted(ctx, reply)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setErrorLocked(err.Error())
		return err
	}
	if r := c.replyLocked(reply); r != nil {
		r.IsAccepted = result.IsAccepted
	}
	return nil
}

// Back returns to the feed without refreshing it; previews may be stale
// until the next refresh.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = ViewFeed
	c.selected = nil
}

// --- Internal ---

func (c *Controller) replyLocked(id domain.ReplyId) *domain.Reply {
	if c.selected == nil {
		return nil
	}
	for i := range c.selected.Replies {
		if c.selected.Replies[i].Id == id {
			return &c.selected.Replies[i]
		}
	}
	return nil
}

// setErrorLocked overwrites the single error slot and restarts its
// visibility window; a newer error replaces an older one, never queues
// behind it.
func (c *Controller) setErrorLocked(msg string) {
	c.errMsg = msg
	c.errGeneration++
	generation := c.errGeneration
	if c.errTimer != nil {
		c.errTimer.Stop()
	}
	c.errTimer = time.AfterFunc(c.errorTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if generation == c.errGeneration {
			c.errMsg = ""
		}
	})
}
