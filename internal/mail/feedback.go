// Package mail relays user feedback, together with the conversation it
// refers to, to a fixed recipient over SMTP submission.
package mail

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	gomail "gopkg.in/gomail.v2"

	"github.com/AnesSym/medical-test/pkg"
)

// ErrNotConfigured is returned when the sender credentials are missing
// from the environment. Feedback delivery fails closed; nothing is queued.
var ErrNotConfigured = errors.New("mail: feedback email credentials not configured")

// FeedbackMailer sends feedback mails through an SMTP submission host.
// The sender doubles as the recipient.
type FeedbackMailer struct {
	From     string
	Password string
	To       string
	Host     string
	Port     int
}

// NewFeedbackMailerFromEnv reads FEEDBACK_EMAIL and
// FEEDBACK_EMAIL_PASSWORD from the environment. Missing values are only an
// error at send time, so startup never fails on mail configuration.
func NewFeedbackMailerFromEnv() *FeedbackMailer {
	addr := os.Getenv("FEEDBACK_EMAIL")
	return &FeedbackMailer{
		From:     addr,
		Password: os.Getenv("FEEDBACK_EMAIL_PASSWORD"),
		To:       addr,
		Host:     "smtp.gmail.com",
		Port:     587,
	}
}

// Send relays the feedback text plus the full turn history.
func (m *FeedbackMailer) Send(feedback string, turns []pkg.Turn) error {
	if m.From == "" || m.Password == "" {
		return ErrNotConfigured
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", "Medical Assistant Feedback - "+time.Now().Format("2006-01-02 15:04:05"))
	msg.SetBody("text/plain", body(feedback, turns))

	d := gomail.NewDialer(m.Host, m.Port, m.From, m.Password)
	return errors.Wrap(d.DialAndSend(msg), "send feedback mail")
}

func body(feedback string, turns []pkg.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		assistant := ""
		if t.Answered() {
			assistant = *t.Assistant
		}
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", t.User, assistant))
	}
	return fmt.Sprintf("New Feedback Received:\n\nFeedback:\n%s\n\nChat History:\n%s\n", feedback, strings.Join(lines, "\n"))
}
