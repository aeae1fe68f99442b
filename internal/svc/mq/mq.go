package mq

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Instance is the outbound job queue. Mail jobs are published here and
// consumed by the mail worker; the REST path never blocks on SMTP.
type Instance interface {
	PublishMailJob(job MailJob) error
	SubscribeMailJobs(handler func(job MailJob)) (Subscription, error)
	Connected() bool
	Close()
}

type Subscription interface {
	Unsubscribe() error
}

type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type inst struct {
	nc      *nats.Conn
	subject string
	queue   string
}

type Options struct {
	URI     string
	Subject string
	Queue   string
}

func New(opt Options) (Instance, error) {
	nc, err := nats.Connect(opt.URI,
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return nil, err
	}

	return &inst{
		nc:      nc,
		subject: opt.Subject,
		queue:   opt.Queue,
	}, nil
}

func (i *inst) PublishMailJob(job MailJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return i.nc.Publish(i.subject, b)
}

func (i *inst) SubscribeMailJobs(handler func(job MailJob)) (Subscription, error) {
	return i.nc.QueueSubscribe(i.subject, i.queue, func(msg *nats.Msg) {
		var job MailJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			return
		}

		handler(job)
	})
}

func (i *inst) Connected() bool {
	return i.nc.IsConnected()
}

func (i *inst) Close() {
	i.nc.Close()
}
