package model

import "time"

// ReminderSettings is the operator-editable reminder configuration. At most one
// instance is stored; a nil value means "use process defaults" everywhere.
type ReminderSettings struct {
	SenderEmail      string     `json:"sender_email,omitempty"`
	SMTPHost         string     `json:"smtp_host,omitempty"`
	SMTPPort         *int       `json:"smtp_port,omitempty"`
	SMTPUsername     string     `json:"smtp_username,omitempty"`
	SMTPPassword     string     `json:"-"`
	SMTPUseTLS       bool       `json:"smtp_use_tls"`
	ReminderCron     string     `json:"reminder_cron,omitempty"`
	ReminderLeadDays *int       `json:"reminder_lead_days,omitempty"`
	UpdatedBy        *int64     `json:"-"`
	UpdatedByName    string     `json:"updated_by,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// HasCustomSMTP reports whether any custom SMTP field is set at all.
func (s *ReminderSettings) HasCustomSMTP() bool {
	return s.SMTPHost != "" || s.SMTPPort != nil || s.SMTPUsername != "" || s.SMTPPassword != ""
}

// CustomSMTPComplete reports whether the custom SMTP configuration is usable:
// host, port, username and password must all be present.
func (s *ReminderSettings) CustomSMTPComplete() bool {
	return s.SMTPHost != "" && s.SMTPPort != nil && s.SMTPUsername != "" && s.SMTPPassword != ""
}
