package ws

import (
	"encoding/json"
	"time"

	"hirelane/internal/domain/application"
	"hirelane/internal/domain/opportunity"
)

const EventApplicationStatusChanged = "application_status_changed"

type ApplicationStatusEvent struct {
	Type          string    `json:"type"`
	ApplicationID string    `json:"application_id"`
	Status        string    `json:"status"`
	JobID         string    `json:"job_id,omitempty"`
	GigID         string    `json:"gig_id,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// Notifier pushes application status changes to the applicant and the
// employer.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) ApplicationStatusChanged(app application.Application) {
	if n == nil || n.hub == nil {
		return
	}

	evt := ApplicationStatusEvent{
		Type:          EventApplicationStatusChanged,
		ApplicationID: app.ID.String(),
		Status:        string(app.Status),
		ChangedAt:     app.UpdatedAt.UTC(),
	}
	if ref := app.Opportunity; ref.Kind() == opportunity.KindJob {
		evt.JobID = ref.JobID.String()
	} else {
		evt.GigID = ref.GigID.String()
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendTo(b, app.ApplicantID, app.EmployerID)
}
