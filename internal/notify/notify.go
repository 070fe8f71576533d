// Package notify posts session events to a Discord channel. It is
// optional: without a token and channel ID every method is a no-op, so
// the rest of the app never has to care whether Discord is wired up.
package notify

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/sxcben/unit-repartition-project/internal/engine"
)

type Announcer struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
	reminder  *reminderWorker
}

// New builds an Announcer. A missing token or channel ID yields a disabled
// announcer rather than an error.
func New(token, channelID string, logger *zap.Logger) (*Announcer, error) {
	a := &Announcer{channelID: channelID, logger: logger}
	if token == "" || channelID == "" {
		logger.Info("discord announcements disabled")
		return a, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	a.session = session
	return a, nil
}

func (a *Announcer) Start() error {
	if a.session == nil {
		return nil
	}
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	a.logger.Info("discord announcer connected", zap.String("channel_id", a.channelID))
	return nil
}

func (a *Announcer) Stop() error {
	a.reminder.stop()
	if a.session == nil {
		return nil
	}
	return a.session.Close()
}

// StartReminders begins periodic nudges about unanswered offers. It is a
// no-op on a disabled announcer.
func (a *Announcer) StartReminders(source Snapshotter, interval time.Duration) {
	if a.session == nil {
		return
	}
	a.reminder = newReminderWorker(a, source, interval)
	a.reminder.start()
}

// TunnelReady announces the public URL once localtunnel is up.
func (a *Announcer) TunnelReady(url string) {
	a.send(fmt.Sprintf("The room swap session is live: %s", url))
}

// SwapSettled announces the outcome of an answered offer.
func (a *Announcer) SwapSettled(settled *engine.Settlement) {
	a.send(formatSettlement(settled))
}

// Announcements are best-effort; a failed send is logged and forgotten.
func (a *Announcer) send(content string) {
	if a.session == nil {
		return
	}
	if _, err := a.session.ChannelMessageSend(a.channelID, content); err != nil {
		a.logger.Warn("discord send failed", zap.Error(err))
	}
}

func formatSettlement(s *engine.Settlement) string {
	if s.Action == engine.Accept {
		msg := fmt.Sprintf("%s and %s swapped rooms: %s now pays %s for %s, %s pays %s for %s.",
			s.Proposer, s.Target,
			s.Proposer, s.TargetPrice, s.TargetUnit,
			s.Target, s.ProposerPrice, s.ProposerUnit)
		if n := len(s.Invalidated); n > 0 {
			msg += fmt.Sprintf(" %d other pending offer(s) were withdrawn.", n)
		}
		return msg
	}
	return fmt.Sprintf("%s declined %s's offer; %s is now priced at %s and %s at %s.",
		s.Target, s.Proposer,
		s.TargetUnit, s.TargetPrice,
		s.ProposerUnit, s.ProposerPrice)
}
