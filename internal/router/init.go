package router

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/config"
	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/container"
	repo "github.com/oksasatya/go-blog-publisher/internal/domain/repository"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/metrics"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-blog-publisher/internal/interface/http"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/internal/router/modules"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
	tpl "github.com/oksasatya/go-blog-publisher/pkg/mailer/templates"
)

// Deps is everything the modules need. Optional collaborators are left nil
// (interfaces stay untyped nil) when their backend is not configured.
type Deps struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Users   repo.UserRepository
	Blogs   repo.BlogRepository
	JWT     *helpers.JWTManager
	Limiter middleware.Limiter
	Metrics *metrics.Metrics

	Searcher      application.BlogSearcher
	Uploader      application.ObjectUploader
	BlogObservers []application.BlogObserver
	UserObservers []application.UserObserver
}

// DepsFromContainer assembles Deps from the singletons set up in main.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	d := Deps{
		Config:  cfg,
		Logger:  logger,
		Users:   container.GetUserRepo(),
		Blogs:   container.GetBlogRepo(),
		JWT:     container.GetJWT(),
		Metrics: container.GetMetrics(),
	}

	if rdb := container.GetRedis(); rdb != nil {
		d.Limiter = middleware.RedisLimiter{RDB: rdb}
	} else {
		d.Limiter = middleware.NewMemoryLimiter()
	}

	if es := container.GetES(); es != nil {
		idx := search.NewBlogIndex(es, cfg.ESBlogsIndex, logger)
		d.Searcher = idx
		d.BlogObservers = append(d.BlogObservers, idx)
	}
	if m := d.Metrics; m != nil {
		d.BlogObservers = append(d.BlogObservers, m)
	}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		site := tpl.Site{
			CompanyName: cfg.CompanyName,
			AppName:     cfg.AppName,
			AppURL:      cfg.AppURL,
			SupportURL:  cfg.SupportURL,
		}
		n := application.NewMailNotifier(pub, d.Users, site, logger)
		d.BlogObservers = append(d.BlogObservers, n)
		d.UserObservers = append(d.UserObservers, n)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Uploader = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	return d
}

// InitModules builds services and handlers from d and registers every
// feature module. Call once during startup.
func InitModules(r *Registry, d Deps) {
	authSvc := application.NewAuthService(d.Users, d.JWT, d.Logger, d.UserObservers...)
	blogSvc := application.NewBlogService(d.Blogs, d.Searcher, d.Logger, d.BlogObservers...)
	mediaSvc := application.NewMediaService(d.Uploader, d.Config.UploadMaxBytes, d.Logger)

	gate := middleware.Auth(authSvc, d.Logger)
	authLimit := middleware.RateLimit(d.Limiter, d.Config.AuthRateLimit, time.Minute, middleware.KeyByIPAndPath(), nil)
	userLimit := middleware.RateLimit(d.Limiter, d.Config.BlogRateLimit, time.Minute, middleware.KeyByUserID(), nil)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, d.Logger), gate, authLimit))
	r.Add(modules.NewBlogModule(handlers.NewBlogHandler(blogSvc, d.Logger), gate, userLimit))
	r.Add(modules.NewUploadModule(handlers.NewUploadHandler(mediaSvc, d.Logger), gate, userLimit))
	if d.Config.DebugMetricsEnabled {
		debugLimit := middleware.RateLimit(d.Limiter, 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
		r.Add(modules.NewDebugModule(d.Metrics, debugLimit))
	}
}
