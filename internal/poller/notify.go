package poller

import "log/slog"

// LogNotifier writes notifications to the log. Used where no desktop
// notification channel exists; permission-gated channels can replace it.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(title, body string) {
	n.Logger.Info("notification", "title", title, "body", body)
}
