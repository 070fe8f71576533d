package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/sxcben/unit-repartition-project/internal/engine"
)

// Snapshotter is the read-only slice of the session the reminder needs.
type Snapshotter interface {
	Snapshot() engine.Snapshot
}

// Minimal interface for posting a message, so tests can record instead.
type sender interface {
	send(content string)
}

// reminderWorker periodically nudges the channel about offers that sit
// unanswered. It only ever reads a snapshot; it never mutates the session.
type reminderWorker struct {
	source   Snapshotter
	sender   sender
	stopChan chan struct{}
	ticker   *time.Ticker
	interval time.Duration
}

func newReminderWorker(sender sender, source Snapshotter, interval time.Duration) *reminderWorker {
	return &reminderWorker{
		source:   source,
		sender:   sender,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

func (w *reminderWorker) start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.interval)
	go w.loop()
}

func (w *reminderWorker) stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *reminderWorker) loop() {
	for {
		select {
		case <-w.ticker.C:
			w.tick()
		case <-w.stopChan:
			return
		}
	}
}

func (w *reminderWorker) tick() {
	if msg := reminderMessage(w.source.Snapshot()); msg != "" {
		w.sender.send(msg)
	}
}

// reminderMessage lists the offers still waiting for an answer, or returns
// "" when there is nothing to nag about.
func reminderMessage(snap engine.Snapshot) string {
	if len(snap.Offers) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d swap offer(s) still waiting for an answer:\n", len(snap.Offers))
	for _, o := range snap.Offers {
		fmt.Fprintf(&b, "%s has not answered %s's offer of %s\n", o.Target, o.Proposer, o.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}
