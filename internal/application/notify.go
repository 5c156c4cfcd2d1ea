package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-publisher/internal/domain/repository"
	"github.com/oksasatya/go-blog-publisher/pkg/mailer"
	tpl "github.com/oksasatya/go-blog-publisher/pkg/mailer/templates"
)

// JobPublisher puts a JSON job on the email queue. helpers.RabbitPublisher
// implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailNotifier enqueues the welcome and first-publish emails. Publishing
// errors are logged and never reach the API caller.
type MailNotifier struct {
	Pub    JobPublisher
	Users  repo.UserRepository
	Site   tpl.Site
	Logger *logrus.Logger
}

func NewMailNotifier(pub JobPublisher, users repo.UserRepository, site tpl.Site, logger *logrus.Logger) *MailNotifier {
	return &MailNotifier{Pub: pub, Users: users, Site: site, Logger: logger}
}

func (n *MailNotifier) UserRegistered(ctx context.Context, u *entity.User) {
	data := tpl.NewWelcomeData(n.Site, u.Name, u.Email, tpl.WithTime(time.Now()))
	n.enqueue(ctx, mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: data}, logrus.Fields{"user_id": u.ID})
}

func (n *MailNotifier) BlogChanged(ctx context.Context, ev BlogEvent) {
	if ev.Kind != BlogPublished || !ev.FirstPublish || ev.Blog == nil {
		return
	}
	fields := logrus.Fields{"user_id": ev.OwnerID, "blog_id": ev.BlogID}
	u, err := n.Users.GetByID(ctx, ev.OwnerID)
	if err != nil {
		if n.Logger != nil {
			n.Logger.WithError(err).WithFields(fields).Warn("publish email skipped: owner lookup failed")
		}
		return
	}
	data := tpl.NewBlogPublishedData(n.Site, u.Name, u.Email, ev.Blog.ID, ev.Blog.Title, ev.Blog.Tags, tpl.WithTime(ev.Blog.UpdatedAt))
	n.enqueue(ctx, mailer.EmailJob{To: u.Email, Template: tpl.BlogPublished, Data: data}, fields)
}

func (n *MailNotifier) enqueue(ctx context.Context, job mailer.EmailJob, fields logrus.Fields) {
	if n.Pub == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(fields).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
