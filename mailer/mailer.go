package mailer

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	mail "github.com/wneessen/go-mail"

	"github.com/kostecki-nokia/dashboard-export/models"
)

// via https://go-mail.dev/getting-started/introduction/

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SummaryBody renders an export summary as the plain-text mail body.
func SummaryBody(summary *models.ExportSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dashboard export finished.\n\n")
	fmt.Fprintf(&b, "Attempted: %d\n", summary.Attempted)
	fmt.Fprintf(&b, "Succeeded: %d\n", summary.Succeeded)
	fmt.Fprintf(&b, "Failed:    %d\n", summary.Failed())
	if !summary.Ok() {
		b.WriteString("\nFailures:\n")
		for _, f := range summary.Failures {
			fmt.Fprintf(&b, "  %s (%s)\n", f.Slug, f.Kind)
		}
	}
	return b.String()
}

func (m *Mailer) Send(subject string, summary *models.ExportSummary) error {
	oopsBuilder := oops.In("Mailer::Send")
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return oopsBuilder.Wrap(err)
	}
	if err := msg.To(m.To); err != nil {
		return oopsBuilder.Wrap(err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString("text/plain", SummaryBody(summary))

	opts := []mail.Option{
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
	}
	if m.Port != 0 {
		opts = append(opts, mail.WithPort(m.Port))
	}

	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return oopsBuilder.Wrap(err)
	}
	defer client.Close()

	if err := client.DialAndSend(msg); err != nil {
		return oopsBuilder.Wrap(err)
	}

	return nil
}
