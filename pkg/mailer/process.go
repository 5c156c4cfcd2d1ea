package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/go-blog-publisher/pkg/mailer/templates"
)

// ErrBadJob marks messages that can never be delivered; the worker drops them
// instead of requeueing.
var ErrBadJob = errors.New("bad email job")

// Process decodes one queued job, renders it and hands it to s.
func Process(ctx context.Context, body []byte, s Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	job.Normalize()
	if !job.Valid() {
		return fmt.Errorf("%w: missing recipient or body", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadJob, err)
		}
	}
	return s.Send(ctx, Message{To: job.To, Subject: subject, Text: text, HTML: html, Tag: job.Template})
}
