package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/pkg/mailer"
)

// Notifier publishes email jobs for the email worker.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// publishEmail enqueues job without letting a failure reach the caller.
func publishEmail(ctx context.Context, n Notifier, logger *logrus.Logger, job mailer.EmailJob) bool {
	if n == nil || job.To == "" {
		return false
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.PublishJSON(c, job); err != nil {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Warn("publish email failed")
		}
		return false
	}
	return true
}
