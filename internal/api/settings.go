package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/zanvidmar/oprema/internal/reminder"
	"github.com/zanvidmar/oprema/internal/store"
)

// SettingsHandler handles reminder settings endpoints. Saving settings
// rearms the reminder schedule so cron changes take effect immediately.
type SettingsHandler struct {
	DB        *sql.DB
	Scheduler *reminder.Scheduler
	Engine    *reminder.Engine
}

type settingsRequest struct {
	SenderEmail      string `json:"sender_email"`
	SMTPHost         string `json:"smtp_host"`
	SMTPPort         *int   `json:"smtp_port"`
	SMTPUsername     string `json:"smtp_username"`
	SMTPPassword     string `json:"smtp_password"`
	SMTPUseTLS       bool   `json:"smtp_use_tls"`
	ReminderCron     string `json:"reminder_cron"`
	ReminderLeadDays *int   `json:"reminder_lead_days"`
}

// Get handles GET /api/settings/reminders. Returns the stored settings, or
// an empty object when nothing has been saved yet (defaults apply). The
// SMTP password is write-only and never included.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := store.GetReminderSettings(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to get reminder settings")
		return
	}
	if settings == nil {
		jsonResponse(w, http.StatusOK, map[string]any{})
		return
	}
	jsonResponse(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings/reminders. An empty smtp_password keeps
// the previously stored one.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SMTPPort != nil && (*req.SMTPPort < 1 || *req.SMTPPort > 65535) {
		jsonError(w, http.StatusBadRequest, "smtp_port out of range")
		return
	}
	if req.ReminderLeadDays != nil && *req.ReminderLeadDays < 1 {
		jsonError(w, http.StatusBadRequest, "reminder_lead_days must be at least 1")
		return
	}
	if req.ReminderCron != "" {
		if err := h.Scheduler.Validate(req.ReminderCron); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid reminder_cron expression")
			return
		}
	}

	var operatorID *int64
	if claims := GetClaims(r.Context()); claims != nil {
		operatorID = &claims.UserID
	}

	settings, err := store.UpsertReminderSettings(r.Context(), h.DB, store.ReminderSettingsParams{
		SenderEmail:      req.SenderEmail,
		SMTPHost:         req.SMTPHost,
		SMTPPort:         req.SMTPPort,
		SMTPUsername:     req.SMTPUsername,
		SMTPPassword:     req.SMTPPassword,
		SMTPUseTLS:       req.SMTPUseTLS,
		ReminderCron:     req.ReminderCron,
		ReminderLeadDays: req.ReminderLeadDays,
	}, operatorID)
	if err != nil {
		storeError(w, err, "failed to save reminder settings")
		return
	}

	if err := h.Scheduler.Configure(settings.ReminderCron); err != nil {
		slog.Error("failed to rearm reminder schedule", "error", err)
	}

	slog.Info("reminder settings updated")
	jsonResponse(w, http.StatusOK, settings)
}

// Run handles POST /api/settings/reminders/run. Triggers a reminder cycle
// immediately, outside the schedule.
func (h *SettingsHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.Engine.RunCycle(r.Context())
	jsonResponse(w, http.StatusOK, map[string]string{"message": "reminder cycle completed"})
}
