// Package driver runs the two-phase continuation protocol: attempt live
// continuation through the host control surface, and on any failure degrade
// to a persisted handoff plus a best-effort notification. Nothing here is
// allowed to raise an error back to the host.
package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/iambrandonn/gsdchain/internal/chainconfig"
	"github.com/iambrandonn/gsdchain/internal/extract"
	"github.com/iambrandonn/gsdchain/internal/handoff"
	"github.com/iambrandonn/gsdchain/internal/hostapi"
	"github.com/iambrandonn/gsdchain/internal/policy"
	"github.com/iambrandonn/gsdchain/internal/tracelog"
)

// Host is the control surface the driver needs from the assistant runtime.
type Host interface {
	Messages(ctx context.Context, sessionID string) ([]hostapi.Message, error)
	NewSession(ctx context.Context) error
	AppendPrompt(ctx context.Context, text string) error
	SubmitPrompt(ctx context.Context) error
}

// Notifier raises a best-effort desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Outcome is the terminal result of one invocation. None escalates to the
// host; all are journaled.
type Outcome string

const (
	OutcomeAutoContinued Outcome = "auto-continued"
	OutcomeDeferred      Outcome = "deferred"
	OutcomeNoCommand     Outcome = "no-command-found"
	OutcomeIneligible    Outcome = "ineligible"
	OutcomeConfirmOnly   Outcome = "confirm-only-reported"
)

// Event is one inbound host signal.
type Event struct {
	SessionID string
	Directory string
}

// DefaultSettleDelay gives the host time to switch to the fresh context
// before text is inserted into it.
const DefaultSettleDelay = 1500 * time.Millisecond

// Controller drives one signal to completion. All side-effecting
// collaborators are injected so the decision pipeline tests without real
// files, processes, or a live host.
type Controller struct {
	Host     Host
	Store    *handoff.Store
	Notifier Notifier
	Trace    *tracelog.Trace
	Journal  *tracelog.Journal

	// Resolve builds the per-invocation config; defaults to
	// chainconfig.Resolve.
	Resolve func(projectDir, assistantText string) chainconfig.ChainConfig
	// Sleep is the only suspension primitive; defaults to time.Sleep.
	Sleep func(time.Duration)

	SettleDelay time.Duration
}

func (c *Controller) resolve(projectDir, text string) chainconfig.ChainConfig {
	if c.Resolve != nil {
		return c.Resolve(projectDir, text)
	}
	return chainconfig.Resolve(projectDir, text)
}

func (c *Controller) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (c *Controller) settleDelay() time.Duration {
	if c.SettleDelay > 0 {
		return c.SettleDelay
	}
	return DefaultSettleDelay
}

// HandleIdle processes one session-idle signal to a terminal outcome.
func (c *Controller) HandleIdle(ctx context.Context, ev Event) Outcome {
	if err := c.Trace.Reset(); err != nil {
		slog.Warn("failed to reset trace", "error", err)
	}
	log := c.Trace.Logger()

	if ev.SessionID == "" {
		log.Warn("idle signal without session id")
		return c.finish("idle", ev, "", OutcomeNoCommand, "missing session id")
	}
	log.Info("idle signal received", "session_id", ev.SessionID, "directory", ev.Directory)

	msgs, err := c.Host.Messages(ctx, ev.SessionID)
	if err != nil {
		// Nothing to chain without the transcript; there is no command
		// to defer either.
		log.Error("failed to fetch session messages", "error", err)
		return c.finish("idle", ev, "", OutcomeNoCommand, err.Error())
	}

	text := hostapi.LastAssistantText(msgs)
	if text == "" {
		log.Info("no assistant turn in session")
		return c.finish("idle", ev, "", OutcomeNoCommand, "no assistant text")
	}

	command, ok := extract.Next(text)
	if !ok {
		log.Info("no next command found in assistant output")
		return c.finish("idle", ev, "", OutcomeNoCommand, "")
	}
	log.Info("extracted next command", "command", command)

	cfg := c.resolve(ev.Directory, text)
	decision := policy.Decide(command, text, cfg)
	if decision.Reason != "" {
		log.Info("eligibility decision", "run", decision.Run, "command", decision.Command, "reason", decision.Reason)
	}
	if !decision.Run {
		return c.finish("idle", ev, command, OutcomeIneligible, decision.Reason)
	}

	if cfg.ConfirmBeforeChain {
		log.Info("confirm-only mode, reporting without execution", "command", decision.Command)
		return c.finish("idle", ev, decision.Command, OutcomeConfirmOnly, "")
	}

	if !cfg.AutoChain {
		log.Info("auto-chain disabled, deferring", "command", decision.Command)
		c.deferCommand(log, decision.Command, cfg)
		return c.finish("idle", ev, decision.Command, OutcomeDeferred, "auto-chain disabled")
	}

	if err := c.execute(ctx, log, decision.Command); err != nil {
		log.Error("live continuation failed, deferring", "command", decision.Command, "error", err)
		c.deferCommand(log, decision.Command, cfg)
		return c.finish("idle", ev, decision.Command, OutcomeDeferred, err.Error())
	}

	log.Info("auto-continued", "command", decision.Command)
	return c.finish("idle", ev, decision.Command, OutcomeAutoContinued, "")
}

// execute issues the three host-control calls strictly in order, each awaited
// before the next. A failure aborts the sequence; partial completion is
// accepted without rollback.
func (c *Controller) execute(ctx context.Context, log *slog.Logger, command string) error {
	if err := c.Host.NewSession(ctx); err != nil {
		return err
	}
	log.Debug("fresh context requested", "settle_delay", c.settleDelay())
	c.sleep(c.settleDelay())

	if err := c.Host.AppendPrompt(ctx, command); err != nil {
		return err
	}
	return c.Host.SubmitPrompt(ctx)
}

// deferCommand persists the handoff, waits the configured delay, then raises
// a best-effort notification. Notification failure is swallowed.
func (c *Controller) deferCommand(log *slog.Logger, command string, cfg chainconfig.ChainConfig) {
	if err := c.Store.Put(command); err != nil {
		log.Error("failed to persist pending handoff", "error", err)
	}

	c.sleep(cfg.AutoChainDelay)

	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.Notify("gsdchain", "Next command ready: "+command); err != nil {
		log.Debug("notification failed", "error", err)
	}
}

// HandleCreated processes one session-created signal: consume the pending
// handoff at most once and surface it for human pickup. This path never
// resubmits automatically.
func (c *Controller) HandleCreated(ctx context.Context, ev Event) (string, bool) {
	log := c.Trace.Logger()

	rec, ok := c.Store.Take()
	if !ok {
		log.Debug("no pending handoff", "session_id", ev.SessionID)
		c.journal("created", ev, "", "no-pending", "")
		return "", false
	}

	if err := c.Store.WritePickup(rec.Command); err != nil {
		log.Error("failed to write pickup file", "error", err)
	}
	log.Info("pending command surfaced",
		"command", rec.Command,
		"deferred_at", rec.CreatedAt(),
		"session_id", ev.SessionID)

	c.journal("created", ev, rec.Command, "surfaced", "")
	return rec.Command, true
}

func (c *Controller) finish(event string, ev Event, command string, outcome Outcome, detail string) Outcome {
	c.journal(event, ev, command, string(outcome), detail)
	return outcome
}

func (c *Controller) journal(event string, ev Event, command, outcome, detail string) {
	if c.Journal == nil {
		return
	}
	err := c.Journal.Append(tracelog.Entry{
		Event:     event,
		SessionID: ev.SessionID,
		Command:   command,
		Outcome:   outcome,
		Detail:    detail,
	})
	if err != nil {
		slog.Debug("failed to journal outcome", "error", err)
	}
}
