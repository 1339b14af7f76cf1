package service

import (
	"github.com/MKhiriev/zotero-kb-sync/models"
)

// reconciler is the concrete implementation of Reconciler. It keeps no state
// and needs no dependencies.
type reconciler struct{}

// NewReconciler constructs a Reconciler ready for use.
func NewReconciler() Reconciler {
	return &reconciler{}
}

// Diff implements Reconciler.
//
// One pass over current classifies keys it shares with archived (update when
// the parent tag sets differ, nothing otherwise) and keys only it has (upload).
// A second pass over archived catches keys that left the selection (delete).
// Every set is ordered by item key.
func (r *reconciler) Diff(current, archived models.SyncState) models.SyncPlan {
	var plan models.SyncPlan

	for _, key := range current.Keys() {
		cur := current[key]
		old, ok := archived[key]
		switch {
		case !ok:
			plan.Upload = append(plan.Upload, cur)
		case !cur.Parent.SameTags(old.Parent):
			plan.Update = append(plan.Update, cur)
		}
	}

	for _, key := range archived.Keys() {
		if !current.Has(key) {
			plan.Delete = append(plan.Delete, archived[key])
		}
	}

	return plan
}

// NextArchive implements Reconciler.
//
// Keys present in both states take the current record, so title and path
// changes reach the archive even when tags did not change. A failed or
// skipped update keeps the archived record, and failed or skipped uploads
// stay absent, so the next pass plans them again.
func (r *reconciler) NextArchive(current, archived models.SyncState, summary models.SyncSummary) models.SyncState {
	pendingUpdates := make(map[string]struct{})
	for _, res := range summary.Results {
		if res.Action == models.ActionUpdate && !res.Succeeded() {
			pendingUpdates[res.Key] = struct{}{}
		}
	}

	next := make(models.SyncState, len(archived))
	for key, old := range archived {
		next[key] = old
		if cur, ok := current[key]; ok {
			if _, pending := pendingUpdates[key]; !pending {
				next[key] = cur
			}
		}
	}

	for _, res := range summary.Results {
		if !res.Succeeded() {
			continue
		}

		switch res.Action {
		case models.ActionUpload:
			if a, ok := current[res.Key]; ok {
				next[res.Key] = a
			}
		case models.ActionDelete:
			delete(next, res.Key)
		}
	}

	return next
}
