package mail

import (
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mq"
)

// Sender delivers one rendered mail. The default implementation only logs;
// a real SMTP or provider-backed sender is injected in production.
type Sender interface {
	Send(to string, subject string, text string) error
}

type logSender struct{}

func (logSender) Send(to string, subject string, text string) error {
	zap.S().Infow("mail sent",
		"to", to,
		"subject", subject,
	)

	return nil
}

var (
	verifyTemplate = fasttemplate.New(
		"Hello {{name}},\n\nPlease verify your email address by clicking the link below:\n{{link}}\n\nThank you!",
		"{{", "}}",
	)
	resetTemplate = fasttemplate.New(
		"Hello {{name}},\n\nPlease reset your password by clicking the link below:\n{{link}}\n\nThank you!",
		"{{", "}}",
	)
)

func VerifyEmailBody(name string, link string) string {
	return verifyTemplate.ExecuteString(map[string]interface{}{
		"name": name,
		"link": link,
	})
}

func ResetPasswordBody(name string, link string) string {
	return resetTemplate.ExecuteString(map[string]interface{}{
		"name": name,
		"link": link,
	})
}

// New starts the in-process mail worker: it consumes mail jobs from the
// queue and hands them to the sender. Returns a channel closed once the
// worker has shut down.
func New(gCtx global.Context, sender Sender) <-chan struct{} {
	if sender == nil {
		sender = logSender{}
	}

	done := make(chan struct{})

	sub, err := gCtx.Inst().MQ.SubscribeMailJobs(func(job mq.MailJob) {
		if err := sender.Send(job.To, job.Subject, job.Text); err != nil {
			zap.S().Errorw("mail, failed to send",
				"to", job.To,
				"error", err,
			)
		}
	})
	if err != nil {
		zap.S().Fatalw("mail, failed to subscribe",
			"error", err,
		)
	}

	go func() {
		<-gCtx.Done()

		_ = sub.Unsubscribe()

		close(done)
	}()

	return done
}
