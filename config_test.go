package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mila-vasiutynska/portfolio/internal/contact"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "emailjs", cfg.MailTransport)
	assert.Equal(t, contact.DefaultEmailJSEndpoint, cfg.EmailJSEndpoint)
	assert.Equal(t, "service_ew4yi3g", cfg.EmailJSServiceID)
	assert.Equal(t, "template_067ycoc", cfg.EmailJSTemplateID)
	assert.Equal(t, "Mila", cfg.ContactToName)
	assert.Equal(t, 5*time.Second, cfg.ContactResetDelay)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 10000, cfg.SessionMax)
}

func TestLoadConfig_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("MAIL_TRANSPORT", "smtp")
	t.Setenv("CONTACT_RESET_DELAY", "2s")
	t.Setenv("CONTACT_TO_NAME", "Owner")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "smtp", cfg.MailTransport)
	assert.Equal(t, 2*time.Second, cfg.ContactResetDelay)
	assert.Equal(t, "Owner", cfg.ContactToName)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown transport", map[string]string{"MAIL_TRANSPORT": "carrier-pigeon"}},
		{"zero rate", map[string]string{"CONTACT_RATE_PER_MIN": "0"}},
		{"bad duration", map[string]string{"CONTACT_RESET_DELAY": "soon"}},
		{"production without admin", map[string]string{"APP_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewSender_SelectsTransport(t *testing.T) {
	cfg := testConfig()
	cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey = "s", "t", "p"

	sender, err := newSender(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &contact.EmailJS{}, sender)

	cfg.MailTransport = "smtp"
	sender, err = newSender(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &contact.SMTP{}, sender)
}

func TestSendOnce(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := sendOnce(context.Background(), cmd, sender, testConfig(), contact.FormData{
		FirstName: "A", LastName: "B", Email: "a@b.com", Message: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "message sent\n", out.String())
	require.Equal(t, 1, sender.count())
	assert.Equal(t, "Website Contact Form", sender.sent[0].Subject)

	err = sendOnce(context.Background(), cmd, sender, testConfig(), contact.FormData{FirstName: "A"})
	assert.ErrorContains(t, err, "required")
	assert.Equal(t, 1, sender.count())
}
