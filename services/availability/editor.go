package availability

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	availabilityRepo "crewcal/database/repository/availability"
	"crewcal/models"
)

// EditorState is the lifecycle of one editable document:
// Clean -> Dirty -> Saving -> (Clean | SaveFailed).
type EditorState string

const (
	StateClean      EditorState = "clean"
	StateDirty      EditorState = "dirty"
	StateSaving     EditorState = "saving"
	StateSaveFailed EditorState = "save_failed"
)

// ErrSaveInFlight is returned by Reconcile while a save is still pending.
var ErrSaveInFlight = errors.New("save in flight, reconcile after it settles")

// ErrUnreconciled is returned by Apply after a failed save: the optimistic
// state no longer matches the store, so the session must Reconcile before
// accepting further edits.
var ErrUnreconciled = errors.New("session has a failed save, reconcile before editing")

// DocumentEditor manages one subject's worker document through an editing
// session. Mutations apply optimistically and are persisted in the
// background; at most one save per subject is in flight at a time, with a
// newer dirty state superseding rather than racing it. A failed save parks
// the editor in SaveFailed until Reconcile refetches the authoritative
// document and discards the optimistic state.
//
// In-flight saves run on context.Background(), so abandoning the editor
// never cancels a write that was already issued.
type DocumentEditor struct {
	repo      availabilityRepo.AvailabilityRepository
	logger    *zap.Logger
	subjectID string

	mu      sync.Mutex
	cond    *sync.Cond
	state   EditorState
	doc     *models.WorkerAvailability
	queued  bool
	lastErr error
}

// NewDocumentEditor loads and normalizes the subject's document and starts
// the session Clean.
func NewDocumentEditor(ctx context.Context, repo availabilityRepo.AvailabilityRepository, subjectID string, logger *zap.Logger) (*DocumentEditor, error) {
	raw, err := repo.GetRaw(ctx, subjectID, models.SubjectWorker)
	if err != nil {
		return nil, err
	}
	e := &DocumentEditor{
		repo:      repo,
		logger:    logger,
		subjectID: subjectID,
		state:     StateClean,
		doc:       NormalizeWorker(raw),
	}
	e.cond = sync.NewCond(&e.mu)
	return e, nil
}

// Document returns a snapshot of the current (possibly optimistic) document.
func (e *DocumentEditor) Document() *models.WorkerAvailability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneWorker(e.doc)
}

// State returns the editor's current lifecycle state.
func (e *DocumentEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error that parked the editor in SaveFailed, if any.
func (e *DocumentEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Apply runs a mutation builder against the current document and adopts the
// result immediately. The session turns Dirty; if a save is already in
// flight, a follow-up save is queued so the newer state supersedes it. A
// SaveFailed session rejects edits with ErrUnreconciled until Reconcile
// restores the authoritative document.
func (e *DocumentEditor) Apply(mutate func(*models.WorkerAvailability) *models.WorkerAvailability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSaveFailed {
		return ErrUnreconciled
	}
	e.doc = mutate(e.doc)
	if e.state == StateSaving {
		e.queued = true
		return nil
	}
	e.state = StateDirty
	return nil
}

// Flush begins persisting a Dirty document in the background. Flushing while
// Saving queues a follow-up; flushing a Clean session is a no-op. A
// SaveFailed session does not retry -- it reconciles instead.
func (e *DocumentEditor) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateSaving:
		e.queued = true
		return
	case StateDirty:
		e.startSaveLocked()
	}
}

// Reconcile refetches the authoritative document and discards the optimistic
// local state, returning the session to Clean. It is the recovery path out
// of SaveFailed.
func (e *DocumentEditor) Reconcile(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSaving {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	e.mu.Unlock()

	raw, err := e.repo.GetRaw(ctx, e.subjectID, models.SubjectWorker)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = NormalizeWorker(raw)
	e.state = StateClean
	e.queued = false
	e.lastErr = nil
	e.cond.Broadcast()
	return nil
}

// WaitSettled blocks until no save is in flight. Test and shutdown hook.
func (e *DocumentEditor) WaitSettled() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.state == StateSaving {
		e.cond.Wait()
	}
}

// startSaveLocked snapshots and serializes the current document, then saves
// it off-goroutine. Caller holds e.mu.
func (e *DocumentEditor) startSaveLocked() {
	payload, err := SerializeWorker(e.doc)
	if err != nil {
		e.state = StateSaveFailed
		e.lastErr = err
		e.cond.Broadcast()
		return
	}
	e.state = StateSaving

	go func() {
		saveErr := e.repo.SaveRaw(context.Background(), e.subjectID, models.SubjectWorker, payload)

		e.mu.Lock()
		defer e.mu.Unlock()
		if saveErr != nil {
			e.logger.Error("availability save failed",
				zap.String("subjectID", e.subjectID), zap.Error(saveErr))
			e.state = StateSaveFailed
			e.lastErr = saveErr
			e.queued = false
			e.cond.Broadcast()
			return
		}
		if e.queued {
			e.queued = false
			e.state = StateDirty
			e.startSaveLocked()
			return
		}
		e.state = StateClean
		e.cond.Broadcast()
	}()
}
