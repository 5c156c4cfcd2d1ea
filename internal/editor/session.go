// Package editor coordinates one blog being edited on the client: local
// state, debounced and periodic autosave, manual save and publish.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/client"
	"github.com/oksasatya/go-blog-publisher/pkg/tags"
)

const (
	DefaultDebounce = 5 * time.Second
	DefaultInterval = 30 * time.Second
	// requests made by timers are bounded so a hung server cannot pile them up
	autosaveTimeout = 20 * time.Second
)

var (
	ErrTitleRequired           = errors.New("title is required")
	ErrTitleAndContentRequired = errors.New("title and content are required")
	ErrClosed                  = errors.New("editor session is closed")
	ErrInvalidTags             = errors.New("invalid tags")
)

// API is the part of client.Client the editor needs.
type API interface {
	SaveDraft(ctx context.Context, d client.Draft) (*client.Blog, error)
	Publish(ctx context.Context, d client.Draft) (*client.Blog, error)
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a transient message for the user, the equivalent of a toast.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

type Options struct {
	Debounce time.Duration
	Interval time.Duration
	// Notify may be called from timer goroutines.
	Notify func(Notice)
	Now      func() time.Time
	Logger   *logrus.Logger
}

func (o *Options) defaults() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Notify == nil {
		o.Notify = func(Notice) {}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
		o.Logger.SetLevel(logrus.WarnLevel)
	}
}

// State is a copy of what the user currently sees.
type State struct {
	ID        string
	Title     string
	Content   string
	Tags      string
	LastSaved time.Time
}

// Session edits one blog. Timers and user actions are the only triggers; the
// debounce timer and the interval ticker are independent and may both fire
// a save for the same edit. Concurrent saves are not ordered, the last
// response to land wins.
type Session struct {
	api  API
	opts Options

	mu        sync.Mutex
	id        string
	title     string
	content   string
	tags      string
	lastSaved time.Time
	closed    bool
	debounce  *time.Timer

	stop chan struct{}
	wg   sync.WaitGroup
	// set while an interval save is running; ticks that land meanwhile are dropped
	ticking atomic.Bool
}

// Open starts a session. b is nil for a blog that does not exist yet.
func Open(api API, b *client.Blog, opts Options) *Session {
	opts.defaults()
	s := &Session{api: api, opts: opts, stop: make(chan struct{})}
	if b != nil {
		s.id = b.ID
		s.title = b.Title
		s.content = b.Content
		s.tags = strings.Join(b.Tags, ", ")
	}

	s.wg.Add(1)
	go s.tick()
	return s
}

func (s *Session) tick() {
	defer s.wg.Done()
	t := time.NewTicker(s.opts.Interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			if !s.ticking.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer s.ticking.Store(false)
				s.autosave("interval")
			}()
		}
	}
}

func (s *Session) SetTitle(v string) { s.edit(func() { s.title = v }) }
func (s *Session) SetContent(v string) { s.edit(func() { s.content = v }) }

// SetTags takes the comma separated display form.
func (s *Session) SetTags(v string) { s.edit(func() { s.tags = v }) }

func (s *Session) edit(apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	apply()
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.opts.Debounce, func() { s.autosave("debounce") })
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{ID: s.id, Title: s.title, Content: s.content, Tags: s.tags, LastSaved: s.lastSaved}
}

func (s *Session) ID() string { return s.State().ID }

// LastSaved is the zero time until the first successful save.
func (s *Session) LastSaved() time.Time { return s.State().LastSaved }

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// snapshot builds the request body under the lock. ok is false when the
// session is closed.
func (s *Session) snapshot() (client.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return client.Draft{}, false
	}
	return client.Draft{ID: s.id, Title: s.title, Content: s.content, Tags: tags.Split(s.tags)}, true
}

// checkTags applies the server's tag limits before anything is sent.
func (s *Session) checkTags(d client.Draft) error {
	if err := tags.Check(d.Tags); err != nil {
		s.notify(LevelError, "Invalid tags: "+err.Error())
		return fmt.Errorf("%w: %v", ErrInvalidTags, err)
	}
	return nil
}

func (s *Session) autosave(trigger string) {
	d, ok := s.snapshot()
	if !ok || strings.TrimSpace(d.Title) == "" {
		return
	}
	if err := s.checkTags(d); err != nil {
		s.opts.Logger.WithError(err).WithField("trigger", trigger).Warn("autosave skipped")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	if err := s.save(ctx, d); err != nil {
		s.opts.Logger.WithError(err).WithField("trigger", trigger).Warn("autosave failed")
		s.notify(LevelError, "Failed to save draft")
		return
	}
	s.notify(LevelInfo, "Draft auto-saved")
}

// SaveDraft saves immediately. Local state is kept on failure.
func (s *Session) SaveDraft(ctx context.Context) error {
	d, ok := s.snapshot()
	if !ok {
		return ErrClosed
	}
	if strings.TrimSpace(d.Title) == "" {
		s.notify(LevelError, "Title is required")
		return ErrTitleRequired
	}
	if err := s.checkTags(d); err != nil {
		return err
	}
	if err := s.save(ctx, d); err != nil {
		s.notify(LevelError, "Failed to save draft")
		return fmt.Errorf("save draft: %w", err)
	}
	s.notify(LevelInfo, "Draft saved")
	return nil
}

func (s *Session) save(ctx context.Context, d client.Draft) error {
	b, err := s.api.SaveDraft(ctx, d)
	if err != nil {
		return err
	}
	s.adopt(b)
	return nil
}

// adopt records a successful save. The first id the server hands back for a
// new blog sticks, so later saves update it instead of creating another.
func (s *Session) adopt(b *client.Blog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" && b != nil {
		s.id = b.ID
	}
	s.lastSaved = s.opts.Now()
}

// Publish sends the current state with status published and closes the
// session on success. On failure the session stays open and unchanged.
func (s *Session) Publish(ctx context.Context) (*client.Blog, error) {
	d, ok := s.snapshot()
	if !ok {
		return nil, ErrClosed
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		s.notify(LevelError, "Title and content are required")
		return nil, ErrTitleAndContentRequired
	}
	if err := s.checkTags(d); err != nil {
		return nil, err
	}
	b, err := s.api.Publish(ctx, d)
	if err != nil {
		s.notify(LevelError, "Failed to publish blog")
		return nil, fmt.Errorf("publish: %w", err)
	}
	s.adopt(b)
	s.Close()
	s.notify(LevelInfo, "Blog published successfully")
	return b, nil
}

// Close stops both timers and waits for the ticker loop to exit. It does not
// wait for saves already in flight; they run to completion in the background
// and their results are still adopted.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	close(s.stop)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) notify(level Level, msg string) {
	s.opts.Notify(Notice{Level: level, Message: msg, At: s.opts.Now()})
}
