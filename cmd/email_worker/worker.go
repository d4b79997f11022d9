package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/pkg/helpers"
	"github.com/oksasatya/campus-events/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-events/pkg/mailer/templates"
)

type outcome int

const (
	ack outcome = iota
	drop
	retry
)

// worker renders queued EmailJobs and hands them to a Sender.
type worker struct {
	sender  mailer.Sender
	logger  *logrus.Logger
	timeout time.Duration
}

// render resolves subject and bodies. A template wins over inline bodies; an
// explicit Subject overrides the template subject.
func render(job *mailer.EmailJob) (subject, text, html string, err error) {
	subject, text, html = job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return "", "", "", err
		}
		text, html = t, h
		if subject == "" {
			subject = s
		}
	}
	if subject == "" {
		subject = helpers.SubjectFor(job.Template)
	}
	return subject, text, html, nil
}

// handle processes one delivery body. Malformed jobs are dropped; send
// failures are retried once through redelivery.
func (w *worker) handle(ctx context.Context, body []byte, redelivered bool) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		w.logger.Warn("message without recipient")
		return drop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html, err := render(&job)
	if err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Error("render failed")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		entry := w.logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template})
		if redelivered {
			entry.Error("send failed again, dropping")
			return drop
		}
		entry.Warn("send failed, requeueing")
		return retry
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack
}
