package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// Site carries the config values every email shows.
type Site struct {
	CompanyName string
	AppName     string
	AppURL      string
	SupportURL  string
}

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(site Site, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: site.CompanyName,
		AppName:     site.AppName,
		AppURL:      strings.TrimRight(site.AppURL, "/"),
		SupportURL:  site.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(site Site, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(site, Welcome, name, email, opts...))
}

func NewBlogPublishedData(site Site, name, email, blogID, title string, tags []string, opts ...Option) map[string]any {
	d := NewBaseEmailData(site, BlogPublished, name, email, opts...)
	d.BlogID = blogID
	d.BlogTitle = title
	d.Tags = tags
	if d.AppURL != "" {
		d.BlogURL = d.AppURL + "/editor/" + blogID
	}
	return ToMap(d)
}
