package mailer

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"bpi.backend/internal/config"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/logger"
)

// Setting keys read from admin_settings.
const (
	SettingSMTPHost     = "smtp_host"
	SettingSMTPPort     = "smtp_port"
	SettingSMTPUsername = "smtp_username"
	SettingSMTPPassword = "smtp_password"
	SettingSMTPFrom     = "smtp_from"
)

var settingKeys = []string{
	SettingSMTPHost,
	SettingSMTPPort,
	SettingSMTPUsername,
	SettingSMTPPassword,
	SettingSMTPFrom,
}

// ErrNotConfigured is returned when neither admin settings nor env provide a host.
var ErrNotConfigured = errors.New("smtp is not configured")

type sender func(cfg config.SMTPConfig, msg *gomail.Message) error

var dialAndSend sender = func(cfg config.SMTPConfig, msg *gomail.Message) error {
	return gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password).DialAndSend(msg)
}

// SMTPMailer sends plain-text mail through the configured SMTP relay.
type SMTPMailer struct {
	settings repositories.AdminSettingRepository
	fallback config.SMTPConfig
	send     sender
}

// NewSMTPMailer creates a mailer whose settings come from admin_settings, then env
func NewSMTPMailer(settings repositories.AdminSettingRepository, fallback config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{settings: settings, fallback: fallback, send: dialAndSend}
}

// Resolve returns the effective SMTP settings.
func (m *SMTPMailer) Resolve(ctx context.Context) config.SMTPConfig {
	cfg := m.fallback
	if m.settings == nil {
		return cfg
	}

	values, err := m.settings.GetMany(ctx, settingKeys)
	if err != nil {
		logger.Warn(ctx, "Failed to load SMTP settings, using environment", zap.Error(err))
		return cfg
	}
	if v := values[SettingSMTPHost]; v != "" {
		cfg.Host = v
	}
	if v := values[SettingSMTPPort]; v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := values[SettingSMTPUsername]; v != "" {
		cfg.Username = v
	}
	if v := values[SettingSMTPPassword]; v != "" {
		cfg.Password = v
	}
	if v := values[SettingSMTPFrom]; v != "" {
		cfg.From = v
	}
	return cfg
}

// Send delivers one plain-text message
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	cfg := m.Resolve(ctx)
	if cfg.Host == "" {
		return ErrNotConfigured
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.send(cfg, msg); err != nil {
		return err
	}
	logger.Debug(ctx, "Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
