package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/zanvidmar/oprema/internal/config"
	"github.com/zanvidmar/oprema/internal/mail"
	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/store"
)

// returnTimeFormat is how expected-return timestamps appear in reminder mails.
const returnTimeFormat = "2006-01-02 15:04"

// Engine scans checked-out units and notifies holders whose loans are due
// soon or overdue. It owns the reminder bookkeeping fields on units but never
// touches lifecycle fields.
type Engine struct {
	DB       *sql.DB
	Resolver *mail.Resolver
	Loan     config.LoanConfig

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// RunCycle executes one reminder pass. It never returns an error: the engine
// runs unattended, so every failure is logged and either skips the cycle or
// skips the affected unit.
func (e *Engine) RunCycle(ctx context.Context) {
	if !e.Loan.ReminderEnabled {
		return
	}

	transport, err := e.Resolver.Resolve(ctx)
	if err != nil {
		slog.Error("resolving mail transport failed, skipping reminder cycle", "error", err)
		return
	}
	if transport == nil {
		slog.Warn("no mail transport configured, skipping reminder cycle")
		return
	}

	// One timestamp for the whole cycle keeps eligibility and bookkeeping
	// consistent across units.
	now := e.now()

	threshold := now.AddDate(0, 0, e.leadDays(ctx))
	candidates, err := store.ListDueUnits(ctx, e.DB, threshold)
	if err != nil {
		slog.Error("querying due units failed, skipping reminder cycle", "error", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	from, err := e.Resolver.SenderAddress(ctx)
	if err != nil {
		slog.Error("resolving sender address failed, skipping reminder cycle", "error", err)
		return
	}

	var notified []store.RemindedUnit
	for i := range candidates {
		unit := &candidates[i]
		if !shouldNotify(unit, now, e.Loan.ReminderCooldownDays) {
			continue
		}

		msg := buildMessage(from, unit, now)
		if err := transport.Send(ctx, msg); err != nil {
			// Bookkeeping stays untouched so the unit is retried next cycle.
			slog.Error("reminder delivery failed", "unit", unit.ID, "serial_no", unit.SerialNo, "error", err)
			continue
		}
		notified = append(notified, store.RemindedUnit{UnitID: unit.ID, HolderID: *unit.HolderID})
	}

	if len(notified) == 0 {
		return
	}

	applied, err := store.MarkUnitsReminded(ctx, e.DB, notified, now)
	if err != nil {
		slog.Error("persisting reminder bookkeeping failed", "error", err)
	}
	slog.Info("reminder cycle complete", "candidates", len(candidates), "sent", len(notified), "recorded", applied)
}

// leadDays returns the operator-saved lead days when present, otherwise the
// process default.
func (e *Engine) leadDays(ctx context.Context) int {
	settings, err := store.GetReminderSettings(ctx, e.DB)
	if err != nil {
		slog.Error("reading reminder settings failed, using default lead days", "error", err)
		return e.Loan.ReminderLeadDays
	}
	if settings != nil && settings.ReminderLeadDays != nil {
		return *settings.ReminderLeadDays
	}
	return e.Loan.ReminderLeadDays
}

// shouldNotify decides whether a candidate unit gets a reminder this cycle.
// Pure: no side effects, all inputs explicit.
func shouldNotify(unit *model.Unit, now time.Time, cooldownDays int) bool {
	if unit.HolderID == nil || unit.HolderEmail == "" {
		return false
	}
	if unit.ExpectedReturnAt == nil {
		return false
	}
	if unit.LastReminderAt == nil {
		return true
	}
	return unit.LastReminderAt.Before(now.AddDate(0, 0, -cooldownDays))
}

// buildMessage renders the reminder mail for one unit.
func buildMessage(from string, unit *model.Unit, now time.Time) mail.Message {
	kind := "Upcoming"
	statusDesc := "due for return soon"
	if unit.ExpectedReturnAt.Before(now) {
		kind = "Overdue"
		statusDesc = "overdue for return"
	}

	holder := unit.HolderName
	if holder == "" {
		holder = unit.HolderEmail
	}

	body := fmt.Sprintf(`Hello %s,

The asset you checked out is %s. Please return it or confirm an
extension with the asset administrator.

Asset:           %s
Asset number:    %s
Serial number:   %s
Expected return: %s

If you have already returned it, please disregard this message.

-- Asset management
`,
		holder, statusDesc,
		unit.AssetName, unit.AssetNo, unit.SerialNo,
		unit.ExpectedReturnAt.Format(returnTimeFormat))

	return mail.Message{
		From:    from,
		To:      unit.HolderEmail,
		Subject: fmt.Sprintf("%s reminder - %s", kind, unit.AssetName),
		Body:    body,
	}
}
