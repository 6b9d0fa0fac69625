// Package notify builds alert messages and delivers them to Telegram.
// Delivery is best-effort everywhere: a failed send is logged and forgotten,
// it never reaches back into the monitoring loop.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ParseMode is the format hint forwarded to the sender.
type ParseMode string

const ParseModeHTML ParseMode = "HTML"

// Sender is the outbound message capability. Send reports delivery success;
// implementations log their own failures.
type Sender interface {
	Send(ctx context.Context, text string, mode ParseMode) bool
}

// Notifier formats the alert, recovery and lifecycle messages for one target.
// With a nil Sender (credentials not configured) every method is a no-op.
type Notifier struct {
	target string
	sender Sender
	log    *zap.Logger
}

func NewNotifier(sender Sender, target string, log *zap.Logger) *Notifier {
	return &Notifier{target: target, sender: sender, log: log}
}

// Enabled reports whether messages will actually be delivered.
func (n *Notifier) Enabled() bool { return n.sender != nil }

// NotifyDown sends the outage alert. Zero statusCode, zero responseTime and
// empty errMsg mean "unknown" and are omitted from the message.
func (n *Notifier) NotifyDown(ctx context.Context, statusCode int, errMsg string, responseTime time.Duration) {
	if n.sender == nil {
		return
	}

	var b strings.Builder
	b.WriteString("🔴 <b>SERVICE DOWN</b>\n\n")
	fmt.Fprintf(&b, "<b>Target:</b> %s\n", n.target)
	fmt.Fprintf(&b, "<b>Time:</b> %s\n", time.Now().Format("2006-01-02 15:04:05"))
	if statusCode != 0 {
		fmt.Fprintf(&b, "<b>Status:</b> %d\n", statusCode)
	}
	if responseTime != 0 {
		fmt.Fprintf(&b, "<b>Response time:</b> %.2fs\n", responseTime.Seconds())
	}
	if errMsg != "" {
		fmt.Fprintf(&b, "<b>Error:</b> %s\n", errMsg)
	}
	b.WriteString("\n⚠️ <i>Check the server and DNS settings</i>")

	n.deliver(ctx, b.String())
}

// NotifyRecovered sends the all-clear with the downtime in whole seconds.
func (n *Notifier) NotifyRecovered(ctx context.Context, downtime time.Duration) {
	if n.sender == nil {
		return
	}

	var b strings.Builder
	b.WriteString("✅ <b>SERVICE RECOVERED</b>\n\n")
	fmt.Fprintf(&b, "<b>Target:</b> %s\n", n.target)
	fmt.Fprintf(&b, "<b>Time:</b> %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "<b>Downtime:</b> %d seconds\n", int(downtime.Seconds()))
	b.WriteString("\n🎉 <i>Everything is back to normal</i>")

	n.deliver(ctx, b.String())
}

// NotifyStarted announces that monitoring is up and on what cadence.
func (n *Notifier) NotifyStarted(ctx context.Context, interval time.Duration) {
	if n.sender == nil {
		return
	}
	n.deliver(ctx, fmt.Sprintf(
		"🚀 <b>Monitoring started</b>\n\n<b>Target:</b> %s\n<b>Interval:</b> %ds",
		n.target, int(interval.Seconds()),
	))
}

// NotifyStopped is the best-effort goodbye on deliberate shutdown.
func (n *Notifier) NotifyStopped(ctx context.Context) {
	if n.sender == nil {
		return
	}
	n.deliver(ctx, fmt.Sprintf("⏸️ <b>Monitoring stopped</b>\n\nTarget: %s", n.target))
}

// NotifyCrashed is the best-effort last word before a nonzero exit.
func (n *Notifier) NotifyCrashed(ctx context.Context, err error) {
	if n.sender == nil {
		return
	}
	n.deliver(ctx, fmt.Sprintf("💥 <b>CRITICAL ERROR</b>\n\nTarget: %s\nError: %v", n.target, err))
}

func (n *Notifier) deliver(ctx context.Context, text string) {
	if ok := n.sender.Send(ctx, text, ParseModeHTML); !ok {
		n.log.Warn("notification not delivered", zap.String("target", n.target))
	}
}
