package workers

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"chess-academy-backend/models"
	"chess-academy-backend/services"
	"chess-academy-backend/storage"
)

// StatusReconciler periodically write-throughs the date-derived tournament
// status so the stored value does not drift between reads. Read-time
// reconciliation in the service stays authoritative; this just keeps the
// database tidy for anything reading it directly.
type StatusReconciler struct {
	Store storage.TournamentStore
	Clock clockwork.Clock
}

func NewStatusReconciler(store storage.TournamentStore, clock clockwork.Clock) *StatusReconciler {
	return &StatusReconciler{Store: store, Clock: clock}
}

// Start runs the sweep on an interval (RECONCILE_INTERVAL, default 10m).
func (w *StatusReconciler) Start() {
	interval := 10 * time.Minute
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		} else {
			log.Printf("[Reconciler] invalid RECONCILE_INTERVAL %q, using default", v)
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			w.Sweep(ctx)
		}),
	)
	log.Printf("✅ Status reconciler running (every %s)", interval)
}

// Sweep corrects every stored status that disagrees with the computed one.
// Cancelled tournaments are never touched.
func (w *StatusReconciler) Sweep(ctx context.Context) {
	items, err := w.Store.Find(ctx, storage.TournamentFilter{
		Statuses: []string{models.TournamentUpcoming, models.TournamentOngoing},
	}, storage.SortByDateAsc, 0, 0)
	if err != nil {
		log.Printf("[Reconciler] sweep failed: %v", err)
		return
	}

	now := w.Clock.Now()
	for i := range items {
		computed := services.ReconcileStatus(&items[i], now)
		if computed == items[i].Status {
			continue
		}
		if _, err := w.Store.Update(ctx, items[i].ID, map[string]interface{}{"status": computed}); err != nil {
			log.Printf("[Reconciler] failed to update tournament %s: %v", items[i].ID, err)
		} else {
			log.Printf("✅ Reconciled tournament %s: %s → %s", items[i].Name, items[i].Status, computed)
		}
	}
}
