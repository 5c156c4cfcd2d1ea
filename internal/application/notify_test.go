package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
	"github.com/oksasatya/go-blog-publisher/pkg/mailer"
	tpl "github.com/oksasatya/go-blog-publisher/pkg/mailer/templates"
)

type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func TestMailNotifier_WelcomeAndFirstPublish(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	pub := &fakePublisher{}
	site := tpl.Site{AppName: "Blog", AppURL: "http://app.test/"}
	n := NewMailNotifier(pub, users, site, nil)

	auth := NewAuthService(users, helpers.NewJWTManager("s", time.Hour), nil, n)
	res, err := auth.Register(ctx, "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	blogs := NewBlogService(memory.NewBlogRepository(), nil, nil, n)
	d, err := blogs.SaveDraft(ctx, res.User.ID, BlogInput{Title: "Draft"})
	require.NoError(t, err)
	_, err = blogs.Publish(ctx, res.User.ID, BlogInput{ID: d.ID, Title: "Launch", Content: "hello"})
	require.NoError(t, err)
	_, err = blogs.Publish(ctx, res.User.ID, BlogInput{ID: d.ID, Title: "Launch", Content: "hello again"})
	require.NoError(t, err)

	require.Len(t, pub.jobs, 2)
	assert.Equal(t, tpl.Welcome, pub.jobs[0].Template)
	assert.Equal(t, "ada@example.com", pub.jobs[0].To)

	assert.Equal(t, tpl.BlogPublished, pub.jobs[1].Template)
	assert.Equal(t, "Launch", pub.jobs[1].Data["BlogTitle"])
	assert.Equal(t, "http://app.test/editor/"+d.ID, pub.jobs[1].Data["BlogURL"])
}

func TestMailNotifier_PublishFailureIsLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	users := memory.NewUserRepository()
	n := NewMailNotifier(&fakePublisher{err: errors.New("broker gone")}, users, tpl.Site{}, logger)

	auth := NewAuthService(users, helpers.NewJWTManager("s", time.Hour), nil, n)
	_, err := auth.Register(context.Background(), "Ada", "ada@example.com", "password1")
	require.NoError(t, err)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, tpl.Welcome, hook.LastEntry().Data["template"])
}

func TestMailNotifier_NilPublisher(t *testing.T) {
	n := NewMailNotifier(nil, memory.NewUserRepository(), tpl.Site{}, nil)
	assert.NotPanics(t, func() {
		n.BlogChanged(context.Background(), BlogEvent{Kind: BlogDeleted, BlogID: "x"})
	})
}
