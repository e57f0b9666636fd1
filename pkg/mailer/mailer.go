package mailer

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config contains credentials and addresses for outgoing mail.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
	OpsEmail  string
}

// Mailer sends transactional email through SendGrid. Delivery failures are
// logged, never returned: enrollment flows must not block on email.
type Mailer interface {
	SendEnrollmentReceipt(toEmail, toName, courseTitle string)
	SendEnrollmentNotice(studentName, studentPhone, courseTitle, proofURL string)
	SendEnrollmentDecision(toEmail, toName, courseTitle, status, reason string)
}

type sendgridMailer struct {
	key    string
	from   *sgmail.Email
	ops    *sgmail.Email
	logger zerolog.Logger
}

// New constructs a SendGrid-backed mailer.
func New(cfg Config, logger zerolog.Logger) Mailer {
	return &sendgridMailer{
		key:    cfg.APIKey,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		ops:    sgmail.NewEmail("Enrollment Desk", cfg.OpsEmail),
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// SendEnrollmentReceipt confirms to the student that their payment proof was
// received and is waiting for review.
func (m *sendgridMailer) SendEnrollmentReceipt(toEmail, toName, courseTitle string) {
	subject := "We received your enrollment request"
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for enrolling in %q. We received your payment proof and our team is reviewing it. You will get another email once your enrollment is approved.\n",
		toName, courseTitle,
	)

	go m.send(sgmail.NewEmail(toName, toEmail), subject, body)
}

// SendEnrollmentNotice alerts the operations inbox that a new proof needs review.
func (m *sendgridMailer) SendEnrollmentNotice(studentName, studentPhone, courseTitle, proofURL string) {
	subject := fmt.Sprintf("New enrollment request: %s", courseTitle)
	body := fmt.Sprintf(
		"Student: %s\nPhone: %s\nCourse: %s\nPayment proof: %s\n",
		studentName, studentPhone, courseTitle, proofURL,
	)

	go m.send(m.ops, subject, body)
}

// SendEnrollmentDecision notifies the student of an approval or rejection.
func (m *sendgridMailer) SendEnrollmentDecision(toEmail, toName, courseTitle, status, reason string) {
	var subject, body string
	if status == "approved" {
		subject = fmt.Sprintf("You're in: %s", courseTitle)
		body = fmt.Sprintf("Hi %s,\n\nYour enrollment in %q has been approved. You can start learning right away.\n", toName, courseTitle)
	} else {
		subject = fmt.Sprintf("Enrollment update: %s", courseTitle)
		body = fmt.Sprintf("Hi %s,\n\nUnfortunately your enrollment request for %q was not approved.", toName, courseTitle)
		if reason != "" {
			body += fmt.Sprintf(" Reason: %s.", reason)
		}
		body += "\nYou can submit a new payment proof at any time.\n"
	}

	go m.send(sgmail.NewEmail(toName, toEmail), subject, body)
}

func (m *sendgridMailer) send(to *sgmail.Email, subject, body string) {
	msg := sgmail.NewSingleEmail(m.from, subject, to, body, "")

	req := sendgrid.GetRequest(m.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		m.logger.Error().Err(err).Str("subject", subject).Msg("failed to send email")
		return
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Error().Int("status", res.StatusCode).Str("subject", subject).Msg("sendgrid rejected email")
		return
	}

	m.logger.Debug().Str("subject", subject).Msg("email dispatched")
}
