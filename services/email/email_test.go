package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SELab-2/Dwengo-1/core"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	svc := NewConsoleServiceMock(core.NewTestConfig())

	svc.SendMessages(
		&core.EmailMessage{To: []mail.Address{{Address: "teacher@example.com"}}, Subject: "hi", Body: "hello"},
		&core.EmailMessage{Subject: "no recipients", Body: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "teacher@example.com"}}, Subject: "empty"},
	)

	msgs := svc.Messages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "hi", msgs[0].Subject)
	}

	svc.Reset()
	assert.Empty(t, svc.Messages())
}

func TestSendgridService_prepare(t *testing.T) {
	conf := core.NewTestConfig()
	conf.AppName = "Dwengo"
	conf.DefaultFromEmail = mail.Address{Name: "Dwengo", Address: "noreply@dwengo.org"}
	svc := NewSendgridService(conf, nil).(*sendgridService)

	m := svc.prepare(core.EmailMessage{
		To:      []mail.Address{{Name: "T", Address: "t@example.com"}},
		Cc:      []mail.Address{{Address: "c@example.com"}},
		Subject: "New student",
		Body:    "body",
	})

	assert.Equal(t, "noreply@dwengo.org", m.From.Address)
	if assert.Len(t, m.Personalizations, 1) {
		p := m.Personalizations[0]
		assert.Equal(t, "[Dwengo] New student", p.Subject)
		assert.Len(t, p.To, 1)
		assert.Len(t, p.CC, 1)
	}
	if assert.Len(t, m.Content, 1) {
		assert.Equal(t, "body", m.Content[0].Value)
	}
}
