package main

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-blog-publisher/pkg/mailer"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

type stubSender struct{ err error }

func (s stubSender) Send(context.Context, mailer.Message) error { return s.err }

func TestHandle(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	good := []byte(`{"to":"a@example.com","subject":"hi","text":"hello"}`)

	cases := []struct {
		name        string
		body        []byte
		sender      stubSender
		redelivered bool
		want        ackRecorder
	}{
		{"delivered", good, stubSender{}, false, ackRecorder{acked: true}},
		{"malformed", []byte(`{`), stubSender{}, false, ackRecorder{nacked: true}},
		{"transient", good, stubSender{err: errors.New("mailgun 503")}, false, ackRecorder{nacked: true, requeue: true}},
		{"transient twice", good, stubSender{err: errors.New("mailgun 503")}, true, ackRecorder{nacked: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ack := &ackRecorder{}
			handle(context.Background(), logger, tc.sender, amqp.Delivery{
				Acknowledger: ack,
				Body:         tc.body,
				Redelivered:  tc.redelivered,
			})
			assert.Equal(t, tc.want, *ack)
		})
	}
}
