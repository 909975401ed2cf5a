// Package cli provides a command-line runner for the bot. It owns the
// session lifecycle: open on start, block until the context is
// cancelled, then close.
package cli

import (
	"context"

	"github.com/retroenv/retrogolib/log"

	"github.com/ry755/rybot2/bot"
)

// Runner wraps a bot for command-line mode.
type Runner struct {
	bot    *bot.Bot
	logger *log.Logger
}

// NewRunner creates a new Runner wrapping the given bot.
func NewRunner(b *bot.Bot, logger *log.Logger) *Runner {
	return &Runner{
		bot:    b,
		logger: logger,
	}
}

// Run opens the session and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.bot.Open(); err != nil {
		return err
	}
	r.logger.Info("Bot running, press Ctrl+C to exit")

	<-ctx.Done()

	r.logger.Info("Shutting down")
	return r.bot.Close()
}
