package services

import (
	"context"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
)

// Safety is the emergency facade. Alert triggering and location sharing
// are strict: a swallowed failure here would tell a user in danger that
// help is on the way when it is not. Contact reads degrade to the
// bundled hotline snapshot so the numbers stay visible offline.
type Safety struct {
	api API
	log logging.Logger
}

func NewSafety(api API, log logging.Logger) *Safety {
	return &Safety{api: api, log: log}
}

// TriggerEmergencyAlert raises an alert for an active ride and returns
// the hotline numbers the backend wants surfaced immediately.
func (s *Safety) TriggerEmergencyAlert(ctx context.Context, alert models.EmergencyAlert) (models.EmergencyAlertResult, error) {
	body := map[string]any{
		"ride_id":        alert.RideID,
		"emergency_type": string(alert.Type),
	}
	if alert.Location != nil {
		body["location"] = map[string]any{
			"latitude":  alert.Location.Latitude,
			"longitude": alert.Location.Longitude,
			"address":   alert.Location.Address,
		}
	}
	if alert.Description != "" {
		body["description"] = alert.Description
	}

	var resp struct {
		Success           bool   `json:"success"`
		AlertID           string `json:"alert_id"`
		Message           string `json:"message"`
		EmergencyContacts struct {
			Police  string `json:"police"`
			Medical string `json:"medical"`
			Support string `json:"support"`
		} `json:"emergency_contacts"`
	}
	if err := s.api.Post(ctx, "/safety/emergency-alert", body, &resp); err != nil {
		return models.EmergencyAlertResult{}, err
	}
	return models.EmergencyAlertResult{
		Success: resp.Success,
		AlertID: resp.AlertID,
		Message: resp.Message,
		Police:  resp.EmergencyContacts.Police,
		Medical: resp.EmergencyContacts.Medical,
		Support: resp.EmergencyContacts.Support,
	}, nil
}

// ShareLocation starts a location-sharing session with the user's
// emergency contacts for the given ride.
func (s *Safety) ShareLocation(ctx context.Context, rideID string, durationMinutes int) (models.LocationShare, error) {
	body := map[string]any{"ride_id": rideID}
	if durationMinutes > 0 {
		body["duration_minutes"] = durationMinutes
	}
	var resp struct {
		Success         bool   `json:"success"`
		SessionID       string `json:"session_id"`
		Message         string `json:"message"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := s.api.Post(ctx, "/safety/share-location", body, &resp); err != nil {
		return models.LocationShare{}, err
	}
	return models.LocationShare{
		Success:         resp.Success,
		SessionID:       resp.SessionID,
		Message:         resp.Message,
		DurationMinutes: resp.DurationMinutes,
	}, nil
}

// AddEmergencyContact registers a contact to notify during emergencies.
func (s *Safety) AddEmergencyContact(ctx context.Context, contact models.EmergencyContact) (models.Ack, error) {
	body := map[string]string{
		"name":  contact.Name,
		"type":  contact.Type,
		"value": contact.Value,
	}
	var resp ackPayload
	if err := s.api.Post(ctx, "/safety/emergency-contact", body, &resp); err != nil {
		return models.Ack{}, err
	}
	return models.Ack{Success: resp.Success, Message: resp.Message}, nil
}

// EmergencyContacts returns the configured contacts, degrading to the
// bundled hotline numbers.
func (s *Safety) EmergencyContacts(ctx context.Context) []models.EmergencyContact {
	return fallback.WithFallback(ctx, s.log, "get emergency contacts",
		func(ctx context.Context) ([]models.EmergencyContact, error) {
			var resp struct {
				Contacts []struct {
					Name  string `json:"name"`
					Type  string `json:"type"`
					Value string `json:"value"`
				} `json:"contacts"`
			}
			if err := s.api.Get(ctx, "/safety/emergency-contacts", &resp); err != nil {
				return nil, err
			}
			var contacts []models.EmergencyContact
			if resp.Contacts != nil {
				contacts = make([]models.EmergencyContact, 0, len(resp.Contacts))
			}
			for _, c := range resp.Contacts {
				contacts = append(contacts, models.EmergencyContact{Name: c.Name, Type: c.Type, Value: c.Value})
			}
			return fallback.EnsureSlice(contacts, fallback.SampleEmergencyContacts()), nil
		},
		fallback.SampleEmergencyContacts())
}

type activeEmergencyPayload struct {
	ID   string `json:"id"`
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	RideID        string `json:"ride_id"`
	EmergencyType string `json:"emergency_type"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
	AdminNotified bool   `json:"admin_notified"`
}

// ActiveEmergencies lists ongoing alerts. Admin-facing; degrades to an
// empty list rather than inventing emergencies.
func (s *Safety) ActiveEmergencies(ctx context.Context) []models.ActiveEmergency {
	return fallback.WithFallback(ctx, s.log, "get active emergencies",
		func(ctx context.Context) ([]models.ActiveEmergency, error) {
			var resp struct {
				Success bool                     `json:"success"`
				Alerts  []activeEmergencyPayload `json:"alerts"`
			}
			if err := s.api.Get(ctx, "/safety/active-emergencies", &resp); err != nil {
				return nil, err
			}
			alerts := make([]models.ActiveEmergency, 0, len(resp.Alerts))
			for _, p := range resp.Alerts {
				alert := models.ActiveEmergency{
					ID:            p.ID,
					UserID:        p.User.ID,
					UserName:      p.User.Name,
					RideID:        p.RideID,
					Type:          p.EmergencyType,
					Description:   p.Description,
					AdminNotified: p.AdminNotified,
				}
				if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
					alert.CreatedAt = t
				}
				alerts = append(alerts, alert)
			}
			return fallback.EnsureSlice(alerts, []models.ActiveEmergency{}), nil
		},
		[]models.ActiveEmergency{})
}

// ResolveEmergency closes an active alert with optional notes.
func (s *Safety) ResolveEmergency(ctx context.Context, alertID, notes string) (models.Ack, error) {
	body := map[string]string{"resolution_notes": notes}
	var resp ackPayload
	if err := s.api.Post(ctx, "/safety/resolve-emergency/"+alertID, body, &resp); err != nil {
		return models.Ack{}, err
	}
	return models.Ack{Success: resp.Success, Message: resp.Message}, nil
}
