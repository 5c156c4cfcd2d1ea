package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/pkg/mailer/templates"
)

type fakeSender struct {
	to, subject, text, html, tag string
	err                          error
	calls                        int
}

func (f *fakeSender) Send(_ context.Context, m Message) error {
	f.calls++
	f.to, f.subject, f.text, f.html, f.tag = m.To, m.Subject, m.Text, m.HTML, m.Tag
	return f.err
}

func TestProcess_Template(t *testing.T) {
	data := templates.ToMap(templates.EmailData{Name: "Ann", AppName: "Blog", BlogTitle: "Hello <world>"})
	body, err := json.Marshal(EmailJob{To: "ann@example.com", Template: templates.BlogPublished, Data: data})
	require.NoError(t, err)

	s := &fakeSender{}
	require.NoError(t, Process(context.Background(), body, s))

	assert.Equal(t, "ann@example.com", s.to)
	assert.Equal(t, templates.BlogPublished, s.tag)
	assert.Contains(t, s.subject, "Hello <world>")
	assert.Contains(t, s.text, "Ann")
	assert.Contains(t, s.html, "Hello &lt;world&gt;")
}

func TestProcess_Raw(t *testing.T) {
	body, _ := json.Marshal(EmailJob{To: "a@b.c", Subject: "s", Text: "t"})
	s := &fakeSender{}
	require.NoError(t, Process(context.Background(), body, s))
	assert.Equal(t, "s", s.subject)
	assert.Equal(t, "t", s.text)
}

func TestProcess_BadJobs(t *testing.T) {
	s := &fakeSender{}

	err := Process(context.Background(), []byte("{"), s)
	assert.ErrorIs(t, err, ErrBadJob)

	body, _ := json.Marshal(EmailJob{Subject: "no recipient", Text: "x"})
	err = Process(context.Background(), body, s)
	assert.ErrorIs(t, err, ErrBadJob)

	body, _ = json.Marshal(EmailJob{To: "a@b.c", Template: "missing"})
	err = Process(context.Background(), body, s)
	assert.ErrorIs(t, err, ErrBadJob)

	assert.Zero(t, s.calls)
}

func TestProcess_SendErrorIsNotBadJob(t *testing.T) {
	body, _ := json.Marshal(EmailJob{To: "a@b.c", Subject: "s", Text: "t"})
	s := &fakeSender{err: errors.New("mailgun down")}

	err := Process(context.Background(), body, s)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
