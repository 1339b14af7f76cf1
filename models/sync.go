// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncPlan holds the three disjoint action sets computed by diffing the
// current catalog state against the archived one. Every slice is ordered by
// item key.
type SyncPlan struct {
	// Upload holds attachments present in the catalog but not in the archive.
	Upload []Attachment

	// Update holds attachments present on both sides whose parent tags differ.
	Update []Attachment

	// Delete holds archived attachments that left the catalog selection.
	Delete []Attachment
}

// IsEmpty reports whether the plan requires no remote operation.
func (p SyncPlan) IsEmpty() bool {
	return len(p.Upload) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// SyncAction names the operation an [ItemResult] describes.
type SyncAction string

const (
	ActionUpload SyncAction = "upload"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

// ItemStatus is the outcome of a single item operation.
type ItemStatus string

const (
	// StatusSucceeded means the remote side now reflects the item.
	StatusSucceeded ItemStatus = "succeeded"

	// StatusSkipped means the item was deliberately not sent (missing local
	// file, unknown remote document). It is retried on the next pass.
	StatusSkipped ItemStatus = "skipped"

	// StatusFailed means a remote call failed. It is retried on the next pass.
	StatusFailed ItemStatus = "failed"

	// StatusPlanned marks items of a dry run. Nothing was sent.
	StatusPlanned ItemStatus = "planned"
)

// ItemResult is the outcome of applying one action to one item.
type ItemResult struct {
	Key    string
	Action SyncAction
	Status ItemStatus

	// DocumentID is the remote document the action touched, when known.
	DocumentID string

	// Reason is a short human-readable explanation for skipped items.
	Reason string

	// Err is set for failed items.
	Err error
}

// Succeeded reports whether the result counts toward the next archive.
func (r ItemResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// SyncSummary aggregates the per-item results of one apply step.
type SyncSummary struct {
	// PassID identifies the pass that produced the summary.
	PassID string

	// DryRun is set when the plan was only computed, not applied.
	DryRun bool

	Results []ItemResult
}

// Add appends a result.
func (s *SyncSummary) Add(r ItemResult) {
	s.Results = append(s.Results, r)
}

// Uploaded returns the keys of successful uploads.
func (s SyncSummary) Uploaded() []string {
	return s.keys(ActionUpload, StatusSucceeded)
}

// Updated returns the keys of successful updates.
func (s SyncSummary) Updated() []string {
	return s.keys(ActionUpdate, StatusSucceeded)
}

// Deleted returns the keys of successful deletions.
func (s SyncSummary) Deleted() []string {
	return s.keys(ActionDelete, StatusSucceeded)
}

// Skipped returns the keys of skipped items across all actions.
func (s SyncSummary) Skipped() []string {
	return s.keys("", StatusSkipped)
}

// Failed returns the keys of failed items across all actions.
func (s SyncSummary) Failed() []string {
	return s.keys("", StatusFailed)
}

// Planned returns the keys of dry-run items across all actions.
func (s SyncSummary) Planned() []string {
	return s.keys("", StatusPlanned)
}

// HasFailures reports whether any item failed.
func (s SyncSummary) HasFailures() bool {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}

// SyncCounts is a compact numeric view of a [SyncSummary].
type SyncCounts struct {
	Uploaded int `json:"uploaded"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Planned  int `json:"planned"`
}

// Counts returns the number of results per outcome.
func (s SyncSummary) Counts() SyncCounts {
	return SyncCounts{
		Uploaded: len(s.Uploaded()),
		Updated:  len(s.Updated()),
		Deleted:  len(s.Deleted()),
		Skipped:  len(s.Skipped()),
		Failed:   len(s.Failed()),
		Planned:  len(s.Planned()),
	}
}

func (s SyncSummary) keys(action SyncAction, status ItemStatus) []string {
	var out []string
	for _, r := range s.Results {
		if action != "" && r.Action != action {
			continue
		}
		if r.Status == status {
			out = append(out, r.Key)
		}
	}
	return out
}
