package service

import (
	"log"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosnapshot — periodic journal safety net
// ─────────────────────────────────────────────────────────────

// autosnapshotSchedule bounds how much drawing a crash can lose.
const autosnapshotSchedule = "@every 2m"

// Autosnapshot journals a full drawing snapshot per live surface on a
// cron schedule. Start on app startup, Stop on shutdown.
type Autosnapshot struct {
	session *Session
	sched   *cron.Cron
}

// NewAutosnapshot creates a stopped autosnapshot service.
func NewAutosnapshot(session *Session) *Autosnapshot {
	return &Autosnapshot{session: session}
}

// Start schedules the snapshot job. No-op when the session has no
// journal or the service already runs.
func (a *Autosnapshot) Start() {
	if a.session.journal == nil {
		log.Println("autosnapshot: no journal configured, not starting")
		return
	}
	if a.sched != nil {
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(autosnapshotSchedule, a.snapshot); err != nil {
		log.Printf("autosnapshot: invalid schedule %q: %v", autosnapshotSchedule, err)
		return
	}
	c.Start()
	a.sched = c
	log.Printf("autosnapshot: scheduled %s", autosnapshotSchedule)
}

// Stop cancels the schedule. Safe to call when never started.
func (a *Autosnapshot) Stop() {
	if a.sched == nil {
		return
	}
	a.sched.Stop()
	a.sched = nil
}

func (a *Autosnapshot) snapshot() {
	for _, surf := range a.session.Surfaces() {
		data, err := surf.DrawingSnapshot()
		if err != nil {
			log.Printf("autosnapshot: surface %s: %v", surf.ID(), err)
			continue
		}
		if _, err := a.session.journal.Append(a.session.id, "snapshot", "autosnapshot", surf.ID(), string(data)); err != nil {
			log.Printf("autosnapshot: journal surface %s: %v", surf.ID(), err)
		}
	}
}
