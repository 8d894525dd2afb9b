package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/types"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
)

const dateLayout = "2006-01-02"

// ProjectUpdate carries only the fields the caller explicitly supplied.
// Nil pointers mean "not changing". assigned_to is the one field where an
// explicit null is meaningful (unassign), so presence is tracked separately
// via AssignedToSet.
type ProjectUpdate struct {
	ProjectName    *string      `json:"project_name"`
	SiteName       *string      `json:"site_name"`
	Barangay       *string      `json:"barangay"`
	Municipality   *string      `json:"municipality"`
	Province       *string      `json:"province"`
	District       *string      `json:"district"`
	Latitude       *float64     `json:"latitude"`
	Longitude      *float64     `json:"longitude"`
	ActivationDate *string      `json:"activation_date"`
	CompletionDate *string      `json:"completion_date"`
	Status         *string      `json:"status"`
	Notes          *string      `json:"notes"`
	Progress       *int         `json:"progress"`
	AssignedTo     *uuid.UUID   `json:"assigned_to"`
	AssignedToSet  bool         `json:"-"`
	Tags           *[]uuid.UUID `json:"tags"`
	ChangeReason   string       `json:"change_reason"`
}

func (u *ProjectUpdate) UnmarshalJSON(b []byte) error {
	type alias ProjectUpdate
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	_, a.AssignedToSet = keys["assigned_to"]
	*u = ProjectUpdate(a)
	return nil
}

// Validate rejects the update before any mutation is applied, so a bad
// status or range never leaves partial state behind.
func (u *ProjectUpdate) Validate() error {
	if u.Status != nil && !types.ValidStatus(NormalizeStatus(*u.Status)) {
		return fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, *u.Status)
	}
	if u.Progress != nil && (*u.Progress < 0 || *u.Progress > 100) {
		return fmt.Errorf("%w: progress must be between 0 and 100", pkgerr.ErrInvalidArgument)
	}
	if u.Latitude != nil && (*u.Latitude < -90 || *u.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", pkgerr.ErrInvalidArgument)
	}
	if u.Longitude != nil && (*u.Longitude < -180 || *u.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", pkgerr.ErrInvalidArgument)
	}
	if u.ActivationDate != nil {
		if _, err := time.Parse(dateLayout, *u.ActivationDate); err != nil {
			return fmt.Errorf("%w: invalid activation_date", pkgerr.ErrInvalidArgument)
		}
	}
	if u.CompletionDate != nil && *u.CompletionDate != "" {
		if _, err := time.Parse(dateLayout, *u.CompletionDate); err != nil {
			return fmt.Errorf("%w: invalid completion_date", pkgerr.ErrInvalidArgument)
		}
	}
	return nil
}

// Apply assigns every supplied field onto the project. Tags and the change
// reason are not project columns and are handled by the caller. Validate
// must have been called first.
func (u *ProjectUpdate) Apply(p *types.Project) {
	if u.ProjectName != nil {
		p.ProjectName = *u.ProjectName
	}
	if u.SiteName != nil {
		p.SiteName = *u.SiteName
	}
	if u.Barangay != nil {
		p.Barangay = *u.Barangay
	}
	if u.Municipality != nil {
		p.Municipality = *u.Municipality
	}
	if u.Province != nil {
		p.Province = *u.Province
	}
	if u.District != nil {
		p.District = *u.District
	}
	if u.Latitude != nil {
		p.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		p.Longitude = *u.Longitude
	}
	if u.ActivationDate != nil {
		if t, err := time.Parse(dateLayout, *u.ActivationDate); err == nil {
			p.ActivationDate = t
		}
	}
	if u.CompletionDate != nil {
		if *u.CompletionDate == "" {
			p.CompletionDate = nil
		} else if t, err := time.Parse(dateLayout, *u.CompletionDate); err == nil {
			p.CompletionDate = &t
		}
	}
	if u.Status != nil {
		p.Status = NormalizeStatus(*u.Status)
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.Progress != nil {
		p.Progress = *u.Progress
	}
	if u.AssignedToSet {
		p.AssignedTo = u.AssignedTo
	}
}
