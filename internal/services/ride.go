package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
)

// locationPayload is the nested address/coordinates shape the backend
// uses for every location field.
type locationPayload struct {
	Address     string `json:"address"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
}

func (p locationPayload) toModel() models.Location {
	return models.Location{
		Address:   p.Address,
		Latitude:  p.Coordinates.Latitude,
		Longitude: p.Coordinates.Longitude,
	}
}

func locationToPayload(l models.Location) locationPayload {
	var p locationPayload
	p.Address = l.Address
	p.Coordinates.Latitude = l.Latitude
	p.Coordinates.Longitude = l.Longitude
	return p
}

// ridePayload accepts both variants the backend emits for ride objects:
// newer responses nest creator fields in creator_info, older ones carry a
// flat creator_name. Normalization collapses them into models.Ride so no
// caller ever branches on the wire shape.
type ridePayload struct {
	MongoID       string `json:"_id"`
	RideID        string `json:"ride_id"`
	CreatorUserID string `json:"creator_user_id"`
	CreatorInfo   *struct {
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		Rating     float64 `json:"rating"`
		TotalRides int     `json:"total_rides"`
	} `json:"creator_info"`
	CreatorName       string          `json:"creator_name"`
	Pickup            locationPayload `json:"pickup_location"`
	Dropoff           locationPayload `json:"dropoff_location"`
	Destination       locationPayload `json:"destination"`
	CarType           string          `json:"car_type"`
	DepartureTime     string          `json:"departure_time"`
	TimeToReach       string          `json:"time_to_reach"`
	PassengerSlots    int             `json:"passenger_slots"`
	AvailableSlots    int             `json:"available_slots"`
	CurrentPassengers int             `json:"current_passengers"`
	GroupJoin         bool            `json:"group_join"`
	Fare              float64         `json:"fare"`
	Distance          float64         `json:"distance"`
	Sector            string          `json:"sector"`
	Status            string          `json:"status"`
	AlreadyJoined     bool            `json:"user_already_joined"`
	CanJoin           bool            `json:"can_join"`
	CanLeave          bool            `json:"can_leave"`
	CanEnd            bool            `json:"can_end"`
}

func (p ridePayload) toModel() models.Ride {
	r := models.Ride{
		ID:                p.RideID,
		CreatorID:         p.CreatorUserID,
		CreatorName:       p.CreatorName,
		CarType:           p.CarType,
		Pickup:            p.Pickup.toModel(),
		Dropoff:           p.Dropoff.toModel(),
		PassengerSlots:    p.PassengerSlots,
		AvailableSlots:    p.AvailableSlots,
		CurrentPassengers: p.CurrentPassengers,
		GroupJoin:         p.GroupJoin,
		Fare:              p.Fare,
		Distance:          p.Distance,
		Sector:            p.Sector,
		Status:            p.Status,
		AlreadyJoined:     p.AlreadyJoined,
		CanJoin:           p.CanJoin,
		CanLeave:          p.CanLeave,
		CanEnd:            p.CanEnd,
	}
	if r.ID == "" {
		r.ID = p.MongoID
	}
	if p.CreatorInfo != nil {
		r.CreatorName = p.CreatorInfo.Name
		r.CreatorRating = p.CreatorInfo.Rating
		r.CreatorTotalRides = p.CreatorInfo.TotalRides
	}
	if r.Dropoff == (models.Location{}) {
		r.Dropoff = p.Destination.toModel()
	}
	departure := p.DepartureTime
	if departure == "" {
		departure = p.TimeToReach
	}
	if t, err := time.Parse(time.RFC3339, departure); err == nil {
		r.DepartureTime = t
	}
	return r
}

// ridesToModels is nil-preserving so structural guards downstream can
// tell a missing collection from an empty one.
func ridesToModels(payloads []ridePayload) []models.Ride {
	if payloads == nil {
		return nil
	}
	rides := make([]models.Ride, 0, len(payloads))
	for _, p := range payloads {
		rides = append(rides, p.toModel())
	}
	return rides
}

// CreateRideForm carries everything the backend needs to publish a ride.
type CreateRideForm struct {
	Pickup         models.Location
	Dropoff        models.Location
	CarType        string
	PassengerSlots int
	MatchSocial    bool
	TimeToReach    time.Time
	PaymentMethod  string
	PromoCode      string
	GroupJoin      bool
	Fare           float64
	Distance       float64
	Sector         string
	DriverType     string
}

// JoinRideForm carries a join request, optionally as a group.
type JoinRideForm struct {
	RideID        string
	Pickup        models.Location
	GroupJoin     bool
	SeatCount     int
	IsGroupLeader bool
}

// Rides is the ride facade. Reads degrade to snapshots or empty
// collections; the fire-and-forget status writes are silent.
type Rides struct {
	api API
	log logging.Logger
}

func NewRides(api API, log logging.Logger) *Rides {
	return &Rides{api: api, log: log}
}

// CreateRide publishes a new ride offer.
func (r *Rides) CreateRide(ctx context.Context, form CreateRideForm) models.Ack {
	body := map[string]any{
		"pickup_location":  locationToPayload(form.Pickup),
		"dropoff_location": locationToPayload(form.Dropoff),
		"car_type":         form.CarType,
		"passenger_slots":  form.PassengerSlots,
		"match_social":     form.MatchSocial,
		"time_to_reach":    form.TimeToReach.Format(time.RFC3339),
		"payment_method":   form.PaymentMethod,
		"group_join":       form.GroupJoin,
		"fare":             form.Fare,
		"distance":         form.Distance,
	}
	if form.PromoCode != "" {
		body["promo_code"] = form.PromoCode
	}
	if form.Sector != "" {
		body["sector"] = form.Sector
	}
	if form.DriverType != "" {
		body["driver_type"] = form.DriverType
	}
	return r.ack(ctx, "create ride", "/rides/create", body,
		models.Ack{Success: false, Message: "Ride creation temporarily unavailable"})
}

type rideListPayload struct {
	Rides []ridePayload `json:"rides"`
	Count int           `json:"count"`
}

// AvailableRides lists joinable rides, optionally filtered by sector.
// Degrades to the bundled sample rides.
func (r *Rides) AvailableRides(ctx context.Context, sector string) models.RideList {
	path := "/rides/available"
	if sector != "" {
		path += "?sector=" + url.QueryEscape(sector)
	}
	return fallback.WithFallback(ctx, r.log, "get available rides",
		func(ctx context.Context) (models.RideList, error) {
			var resp rideListPayload
			if err := r.api.Get(ctx, path, &resp); err != nil {
				return models.RideList{}, err
			}
			rides := fallback.EnsureSlice(ridesToModels(resp.Rides), fallback.SampleRideList().Rides)
			return models.RideList{Rides: rides, Count: resp.Count}, nil
		},
		fallback.SampleRideList())
}

// JoinRide requests a seat on a ride.
func (r *Rides) JoinRide(ctx context.Context, form JoinRideForm) models.Ack {
	body := map[string]any{
		"ride_id":         form.RideID,
		"pickup_location": locationToPayload(form.Pickup),
	}
	if form.GroupJoin {
		body["group_join"] = true
		body["seat_count"] = form.SeatCount
		body["is_group_leader"] = form.IsGroupLeader
	}
	return r.ack(ctx, "join ride", "/rides/join", body,
		models.Ack{Success: false, Message: "Join ride temporarily unavailable"})
}

// LeaveRide drops the user from a ride. Failures are invisible.
func (r *Rides) LeaveRide(ctx context.Context, rideID string) models.Ack {
	return r.silentAck(ctx, "/rides/leave", map[string]string{"ride_id": rideID},
		models.Ack{Success: true, Message: "Ride left"})
}

// PendingDriverRides lists rides awaiting a company driver.
func (r *Rides) PendingDriverRides(ctx context.Context) []models.Ride {
	return fallback.WithFallback(ctx, r.log, "get pending driver rides",
		func(ctx context.Context) ([]models.Ride, error) {
			var resp rideListPayload
			if err := r.api.Get(ctx, "/rides/pending-driver", &resp); err != nil {
				return nil, err
			}
			return fallback.EnsureSlice(ridesToModels(resp.Rides), []models.Ride{}), nil
		},
		[]models.Ride{})
}

// AcceptRide takes a pending ride as its driver.
func (r *Rides) AcceptRide(ctx context.Context, rideID string) models.Ack {
	return r.ack(ctx, "accept ride", "/rides/accept", map[string]string{"ride_id": rideID},
		models.Ack{Success: false, Message: "Accept ride temporarily unavailable"})
}

// CancelRide cancels a ride the user created. Failures are invisible.
func (r *Rides) CancelRide(ctx context.Context, rideID string) models.Ack {
	return r.silentAck(ctx, "/rides/cancel", map[string]string{"ride_id": rideID},
		models.Ack{Success: true, Message: "Ride cancelled"})
}

// SetArrivalStatus reports driver arrival at the pickup point.
func (r *Rides) SetArrivalStatus(ctx context.Context, rideID string, arrived bool) models.Ack {
	body := map[string]any{"ride_id": rideID, "has_arrived": arrived}
	return r.silentAck(ctx, "/rides/arrival", body, models.Ack{Success: true})
}

// UpdateRideStatus transitions the ride through its lifecycle states.
func (r *Rides) UpdateRideStatus(ctx context.Context, rideID, status string) models.Ack {
	body := map[string]string{"ride_id": rideID, "status": status}
	return r.silentAck(ctx, "/rides/status", body, models.Ack{Success: true})
}

// UpdateDriverLocation streams the driver position. High-frequency and
// best-effort, so failures are invisible.
func (r *Rides) UpdateDriverLocation(ctx context.Context, rideID string, loc models.Location) models.Ack {
	body := map[string]any{"ride_id": rideID, "location": locationToPayload(loc)}
	return r.silentAck(ctx, "/rides/location", body, models.Ack{Success: true})
}

type driverStatusPayload struct {
	Status   string           `json:"status"`
	Arrived  bool             `json:"arrived"`
	Location *locationPayload `json:"location"`
}

// DriverStatus reports driver progress for an active ride.
func (r *Rides) DriverStatus(ctx context.Context, rideID string) models.DriverStatus {
	return fallback.WithFallback(ctx, r.log, "get driver status",
		func(ctx context.Context) (models.DriverStatus, error) {
			var resp driverStatusPayload
			if err := r.api.Get(ctx, "/rides/"+rideID+"/driver-status", &resp); err != nil {
				return models.DriverStatus{}, err
			}
			status := models.DriverStatus{Status: resp.Status, Arrived: resp.Arrived}
			if resp.Location != nil {
				loc := resp.Location.toModel()
				status.Location = &loc
			}
			return status, nil
		},
		models.DriverStatus{Status: "unknown"})
}

// CompleteRide finishes an active ride.
func (r *Rides) CompleteRide(ctx context.Context, rideID string) models.Ack {
	return r.ack(ctx, "complete ride", "/rides/complete", map[string]string{"ride_id": rideID},
		models.Ack{Success: true, Message: "Ride completed"})
}

type routePayload struct {
	Route    []locationPayload `json:"route"`
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
}

// RideRoute returns navigation data from the given current position.
func (r *Rides) RideRoute(ctx context.Context, rideID string, lat, lng float64) models.RideRoute {
	path := fmt.Sprintf("/rides/%s/route?lat=%v&lng=%v", rideID, lat, lng)
	return fallback.WithFallback(ctx, r.log, "get ride route",
		func(ctx context.Context) (models.RideRoute, error) {
			var resp routePayload
			if err := r.api.Get(ctx, path, &resp); err != nil {
				return models.RideRoute{}, err
			}
			points := make([]models.Location, 0, len(resp.Route))
			for _, p := range resp.Route {
				points = append(points, p.toModel())
			}
			return models.RideRoute{Points: points, Distance: resp.Distance, Duration: resp.Duration}, nil
		},
		models.RideRoute{Points: []models.Location{}})
}

// RideDetails fetches one ride. Degrades to a placeholder keeping the
// requested id so the caller still has something renderable.
func (r *Rides) RideDetails(ctx context.Context, rideID string) models.Ride {
	return fallback.WithFallback(ctx, r.log, "get ride details",
		func(ctx context.Context) (models.Ride, error) {
			var resp ridePayload
			if err := r.api.Get(ctx, "/rides/"+rideID, &resp); err != nil {
				return models.Ride{}, err
			}
			return resp.toModel(), nil
		},
		models.Ride{
			ID:          rideID,
			CreatorName: "Unknown Driver",
			Pickup:      models.Location{Address: "Location not available"},
			Dropoff:     models.Location{Address: "Destination not available"},
			Status:      "unknown",
		})
}

// LocationSuggestions returns the bundled pickup/dropoff suggestions used
// by the ride-creation flow. Local data, no network.
func (r *Rides) LocationSuggestions() []models.LocationSuggestion {
	return fallback.SampleLocationSuggestions()
}

func (r *Rides) ack(ctx context.Context, opName, path string, body any, fb models.Ack) models.Ack {
	return fallback.WithFallback(ctx, r.log, opName,
		func(ctx context.Context) (models.Ack, error) {
			var resp ackPayload
			if err := r.api.Post(ctx, path, body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		fb)
}

func (r *Rides) silentAck(ctx context.Context, path string, body any, fb models.Ack) models.Ack {
	return fallback.Silent(ctx,
		func(ctx context.Context) (models.Ack, error) {
			var resp ackPayload
			if err := r.api.Post(ctx, path, body, &resp); err != nil {
				return models.Ack{}, err
			}
			return models.Ack{Success: true, Message: resp.Message}, nil
		},
		fb)
}
