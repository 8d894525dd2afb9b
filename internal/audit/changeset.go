package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// Snapshot captures the tracked fields of a project at the instant an update
// begins, before any mutation is applied.
type Snapshot struct {
	Status     string
	AssignedTo *uuid.UUID
}

func TakeSnapshot(p *types.Project) Snapshot {
	return Snapshot{Status: p.Status, AssignedTo: p.AssignedTo}
}

// FieldChange is one old/new pair inside a change-set.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps field name to its old/new pair. Only status and assigned_to
// are diffed; edits to other fields are invisible in the audit trail.
type ChangeSet map[string]FieldChange

// ComputeChangeSet diffs the tracked fields between the pre-update snapshot
// and the supplied update. Fields absent from the update never enter the
// change-set, so "not supplied" is never conflated with "set to null".
// Pure function of its inputs.
func ComputeChangeSet(prev Snapshot, upd *ProjectUpdate) ChangeSet {
	cs := ChangeSet{}
	if upd == nil {
		return cs
	}
	if upd.Status != nil {
		newStatus := NormalizeStatus(*upd.Status)
		if newStatus != NormalizeStatus(prev.Status) {
			cs["status"] = FieldChange{Old: prev.Status, New: newStatus}
		}
	}
	if upd.AssignedToSet && !sameAssignee(prev.AssignedTo, upd.AssignedTo) {
		cs["assigned_to"] = FieldChange{Old: prev.AssignedTo, New: upd.AssignedTo}
	}
	return cs
}

func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// NewHistoryRecord builds the audit entry for one project edit. It returns
// nil when no record is warranted: the change-set is empty and no reason was
// given. Status and assignee pairs are populated only when that field is in
// the change-set; otherwise both sides stay null.
func NewHistoryRecord(projectID uuid.UUID, cs ChangeSet, actorID uuid.UUID, reason string) (*types.ProjectHistory, error) {
	reason = strings.TrimSpace(reason)
	if len(cs) == 0 && reason == "" {
		return nil, nil
	}

	rec := &types.ProjectHistory{
		ID:        uuid.New(),
		ProjectID: projectID,
		ChangedBy: actorID,
	}
	if reason != "" {
		rec.ChangeReason = &reason
	}
	if fc, ok := cs["status"]; ok {
		oldStatus, _ := fc.Old.(string)
		newStatus, _ := fc.New.(string)
		rec.OldStatus = &oldStatus
		rec.NewStatus = &newStatus
	}
	if fc, ok := cs["assigned_to"]; ok {
		rec.OldAssignedTo, _ = fc.Old.(*uuid.UUID)
		rec.NewAssignedTo, _ = fc.New.(*uuid.UUID)
	}
	if len(cs) > 0 {
		raw, err := json.Marshal(cs)
		if err != nil {
			return nil, fmt.Errorf("marshal changed fields: %w", err)
		}
		rec.ChangedFields = datatypes.JSON(raw)
	}
	return rec, nil
}

// CreationReason is the fixed reason recorded when a project is first created.
const CreationReason = "Project created"

// NewCreationRecord builds the single audit entry written alongside project
// creation: no old status, new status set to the initial one, no assignment
// fields.
func NewCreationRecord(p *types.Project, actorID uuid.UUID) *types.ProjectHistory {
	newStatus := p.Status
	reason := CreationReason
	return &types.ProjectHistory{
		ID:           uuid.New(),
		ProjectID:    p.ID,
		NewStatus:    &newStatus,
		ChangedBy:    actorID,
		ChangeReason: &reason,
	}
}
