package availability

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"crewcal/models"
)

// memRepo is an in-memory store adapter for engine tests. An optional gate
// channel makes saves block until the test releases them, which is how the
// ordering tests hold a save in flight.
type memRepo struct {
	mu      sync.Mutex
	docs    map[string]string
	saveErr error
	gate    chan struct{}
	saves   int
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[string]string)}
}

func memKey(subjectID string, kind models.SubjectKind) string {
	return string(kind) + ":" + subjectID
}

func (r *memRepo) GetRaw(_ context.Context, subjectID string, kind models.SubjectKind) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[memKey(subjectID, kind)], nil
}

func (r *memRepo) SaveRaw(_ context.Context, subjectID string, kind models.SubjectKind, payload string) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.docs[memKey(subjectID, kind)] = payload
	return nil
}

func (r *memRepo) Delete(_ context.Context, subjectID string, kind models.SubjectKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, memKey(subjectID, kind))
	return nil
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func TestEditorApplyFlushSaves(t *testing.T) {
	repo := newMemRepo()
	editor, err := NewDocumentEditor(context.Background(), repo, "w1", zap.NewNop())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if editor.State() != StateClean {
		t.Fatalf("fresh editor should be clean, got %s", editor.State())
	}

	editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ToggleDate(doc, "2024-03-04", TemplateFor(doc, "2024-03-04", nil))
	})
	if editor.State() != StateDirty {
		t.Fatalf("expected dirty after apply, got %s", editor.State())
	}

	editor.Flush()
	editor.WaitSettled()
	if editor.State() != StateClean {
		t.Fatalf("expected clean after flush, got %s (err %v)", editor.State(), editor.Err())
	}

	payload, _ := repo.GetRaw(context.Background(), "w1", models.SubjectWorker)
	persisted := NormalizeWorker(payload)
	if len(persisted.CustomAvailability) != 1 || persisted.CustomAvailability[0].Date != "2024-03-04" {
		t.Fatalf("expected the toggle persisted, got %+v", persisted.CustomAvailability)
	}
}

func TestEditorNewerStateSupersedesInFlightSave(t *testing.T) {
	repo := newMemRepo()
	repo.gate = make(chan struct{})

	editor, err := NewDocumentEditor(context.Background(), repo, "w1", zap.NewNop())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ApplyDateRange(doc, "2024-06-01", "2024-06-01", DayState{Available: false})
	})
	editor.Flush()
	if editor.State() != StateSaving {
		t.Fatalf("expected a save in flight, got %s", editor.State())
	}

	// A second edit lands while the first save is stuck in flight.
	editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ApplyDateRange(doc, "2024-06-02", "2024-06-02", DayState{Available: false})
	})

	// Release both saves; the sends synchronize with each save starting.
	repo.gate <- struct{}{}
	repo.gate <- struct{}{}
	editor.WaitSettled()

	if editor.State() != StateClean {
		t.Fatalf("expected clean after both saves, got %s (err %v)", editor.State(), editor.Err())
	}
	if got := repo.saveCount(); got != 2 {
		t.Fatalf("expected exactly 2 saves (supersede, not race), got %d", got)
	}

	payload, _ := repo.GetRaw(context.Background(), "w1", models.SubjectWorker)
	persisted := NormalizeWorker(payload)
	if len(persisted.CustomAvailability) != 2 {
		t.Fatalf("final write must carry both edits, got %+v", persisted.CustomAvailability)
	}
}

func TestEditorSaveFailureReconciles(t *testing.T) {
	repo := newMemRepo()
	authoritative, err := SerializeWorker(&models.WorkerAvailability{
		WorkingHours: map[string]models.WeekdayRule{
			"monday": {Available: true, TimeSlots: []models.TimeSlot{{Start: "08:00", End: "16:00"}}},
		},
		CustomAvailability: []models.DateOverride{},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	repo.docs[memKey("w1", models.SubjectWorker)] = authoritative

	editor, err := NewDocumentEditor(context.Background(), repo, "w1", zap.NewNop())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	repo.saveErr = errors.New("store unavailable")
	editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ToggleDate(doc, "2024-03-04", TemplateFor(doc, "2024-03-04", nil))
	})
	editor.Flush()
	editor.WaitSettled()

	if editor.State() != StateSaveFailed {
		t.Fatalf("expected save_failed, got %s", editor.State())
	}
	if editor.Err() == nil {
		t.Fatalf("expected the save error retained")
	}

	// A failed session does not retry on flush.
	before := repo.saveCount()
	editor.Flush()
	editor.WaitSettled()
	if repo.saveCount() != before {
		t.Fatalf("save_failed must not retry on flush")
	}

	// Reconcile refetches and discards the optimistic state.
	repo.saveErr = nil
	if err := editor.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if editor.State() != StateClean {
		t.Fatalf("expected clean after reconcile, got %s", editor.State())
	}
	doc := editor.Document()
	if len(doc.CustomAvailability) != 0 {
		t.Fatalf("optimistic override must be discarded, got %+v", doc.CustomAvailability)
	}
	if doc.WorkingHours["monday"].TimeSlots[0].Start != "08:00" {
		t.Fatalf("expected the authoritative document back, got %+v", doc.WorkingHours["monday"])
	}
}

func TestEditorApplyAfterFailureRequiresReconcile(t *testing.T) {
	repo := newMemRepo()
	editor, err := NewDocumentEditor(context.Background(), repo, "w1", zap.NewNop())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	repo.saveErr = errors.New("store unavailable")
	editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ToggleDate(doc, "2024-03-04", TemplateFor(doc, "2024-03-04", nil))
	})
	editor.Flush()
	editor.WaitSettled()
	if editor.State() != StateSaveFailed {
		t.Fatalf("expected save_failed, got %s", editor.State())
	}

	// Edits bounce until the session reconciles; the document stays put.
	before := editor.Document()
	applyErr := editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ToggleDate(doc, "2024-03-05", TemplateFor(doc, "2024-03-05", nil))
	})
	if !errors.Is(applyErr, ErrUnreconciled) {
		t.Fatalf("expected ErrUnreconciled, got %v", applyErr)
	}
	if editor.State() != StateSaveFailed {
		t.Fatalf("rejected apply must not change state, got %s", editor.State())
	}
	if after := editor.Document(); len(after.CustomAvailability) != len(before.CustomAvailability) {
		t.Fatalf("rejected apply must not mutate the document")
	}

	repo.saveErr = nil
	if err := editor.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := editor.Apply(func(doc *models.WorkerAvailability) *models.WorkerAvailability {
		return ToggleDate(doc, "2024-03-05", TemplateFor(doc, "2024-03-05", nil))
	}); err != nil {
		t.Fatalf("apply after reconcile: %v", err)
	}
	if editor.State() != StateDirty {
		t.Fatalf("expected dirty after reconciled apply, got %s", editor.State())
	}
}

func TestEditorFlushCleanIsNoop(t *testing.T) {
	repo := newMemRepo()
	editor, err := NewDocumentEditor(context.Background(), repo, "w1", zap.NewNop())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	editor.Flush()
	editor.WaitSettled()
	if repo.saveCount() != 0 {
		t.Fatalf("flushing a clean session must not save")
	}
}
