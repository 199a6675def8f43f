package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridematch/client-go/internal/models"
)

func newRides(api API) (*Rides, *spyLogger) {
	log := &spyLogger{}
	return NewRides(api, log), log
}

func TestRides_AvailableRidesNormalizesCreatorVariants(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/rides/available", map[string]any{
		"rides": []map[string]any{
			{
				"ride_id":         "ride_10",
				"creator_user_id": "user_1",
				"creator_info":    map[string]any{"name": "John", "rating": 4.8, "total_rides": 45},
				"pickup_location": map[string]any{
					"address":     "Campus Gate",
					"coordinates": map[string]any{"latitude": 3.25, "longitude": 101.73},
				},
				"available_slots": 2,
				"fare":            15.0,
				"can_join":        true,
			},
			{
				"_id":          "ride_11",
				"creator_name": "Sarah",
				"destination": map[string]any{
					"address": "Airport",
				},
			},
		},
		"count": 2,
	})
	rides, _ := newRides(api)

	list := rides.AvailableRides(context.Background(), "")
	require.Len(t, list.Rides, 2)

	nested := list.Rides[0]
	assert.Equal(t, "ride_10", nested.ID)
	assert.Equal(t, "John", nested.CreatorName)
	assert.Equal(t, 4.8, nested.CreatorRating)
	assert.Equal(t, "Campus Gate", nested.Pickup.Address)
	assert.True(t, nested.CanJoin)

	flat := list.Rides[1]
	assert.Equal(t, "ride_11", flat.ID, "mongo id fills in when ride_id is absent")
	assert.Equal(t, "Sarah", flat.CreatorName)
	assert.Equal(t, "Airport", flat.Dropoff.Address, "destination variant maps to dropoff")
}

func TestRides_AvailableRidesSectorFilter(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/rides/available?sector=north+east", map[string]any{
		"rides": []map[string]any{},
		"count": 0,
	})
	rides, _ := newRides(api)

	list := rides.AvailableRides(context.Background(), "north east")
	assert.Empty(t, list.Rides)
	assert.Equal(t, "/rides/available?sector=north+east", api.lastCall(t).Path)
}

func TestRides_AvailableRidesFallsBackToSamples(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/rides/available", errors.New("connection refused"))
	rides, log := newRides(api)

	list := rides.AvailableRides(context.Background(), "")
	require.Len(t, list.Rides, 3)
	assert.Equal(t, "ride_001", list.Rides[0].ID)
	assert.Equal(t, 1, log.count())
}

func TestRides_AvailableRidesNilCollectionUsesSamples(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/rides/available", map[string]any{"count": 0})
	rides, _ := newRides(api)

	list := rides.AvailableRides(context.Background(), "")
	require.Len(t, list.Rides, 3, "missing rides key is malformed, not empty")
}

func TestRides_CreateRideDegradesToFailureAck(t *testing.T) {
	api := newFakeAPI()
	api.fail("POST", "/rides/create", errors.New("boom"))
	rides, log := newRides(api)

	ack := rides.CreateRide(context.Background(), CreateRideForm{
		Pickup:  models.Location{Address: "A"},
		Dropoff: models.Location{Address: "B"},
		CarType: "sedan",
		Fare:    12,
	})
	assert.False(t, ack.Success)
	assert.Equal(t, "Ride creation temporarily unavailable", ack.Message)
	assert.Equal(t, 1, log.count())
}

func TestRides_CreateRidePayload(t *testing.T) {
	api := newFakeAPI()
	api.respond("POST", "/rides/create", map[string]any{"success": true, "message": "created"})
	rides, _ := newRides(api)

	departure := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	rides.CreateRide(context.Background(), CreateRideForm{
		Pickup:         models.Location{Address: "A", Latitude: 1, Longitude: 2},
		Dropoff:        models.Location{Address: "B"},
		CarType:        "sedan",
		PassengerSlots: 3,
		TimeToReach:    departure,
		PaymentMethod:  "wallet",
		Fare:           12.5,
		Sector:         "north",
	})

	body := api.lastBody(t)
	assert.Equal(t, "sedan", body["car_type"])
	assert.Equal(t, "wallet", body["payment_method"])
	assert.Equal(t, "north", body["sector"])
	assert.Equal(t, "2026-09-01T08:30:00Z", body["time_to_reach"])
	assert.NotContains(t, body, "promo_code", "empty optionals stay off the wire")
	pickup := body["pickup_location"].(map[string]any)
	assert.Equal(t, "A", pickup["address"])
}

func TestRides_SilentWritesNeverLog(t *testing.T) {
	api := newFakeAPI() // every call fails as unexpected
	rides, log := newRides(api)
	ctx := context.Background()

	leave := rides.LeaveRide(ctx, "ride_1")
	cancel := rides.CancelRide(ctx, "ride_1")
	arrival := rides.SetArrivalStatus(ctx, "ride_1", true)
	status := rides.UpdateRideStatus(ctx, "ride_1", "in_progress")
	location := rides.UpdateDriverLocation(ctx, "ride_1", models.Location{Address: "here"})

	assert.True(t, leave.Success)
	assert.True(t, cancel.Success)
	assert.True(t, arrival.Success)
	assert.True(t, status.Success)
	assert.True(t, location.Success)
	assert.Zero(t, log.count(), "silent operations must not log failures")
}

func TestRides_DriverStatusFallback(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/rides/ride_1/driver-status", errors.New("boom"))
	rides, _ := newRides(api)

	status := rides.DriverStatus(context.Background(), "ride_1")
	assert.Equal(t, "unknown", status.Status)
	assert.False(t, status.Arrived)
	assert.Nil(t, status.Location)
}

func TestRides_RideRoute(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/rides/ride_1/route?lat=3.25&lng=101.73", map[string]any{
		"route": []map[string]any{
			{"address": "start", "coordinates": map[string]any{"latitude": 3.25, "longitude": 101.73}},
			{"address": "end", "coordinates": map[string]any{"latitude": 3.14, "longitude": 101.70}},
		},
		"distance": 18.4,
		"duration": 32.0,
	})
	rides, _ := newRides(api)

	route := rides.RideRoute(context.Background(), "ride_1", 3.25, 101.73)
	require.Len(t, route.Points, 2)
	assert.Equal(t, 18.4, route.Distance)
	assert.Equal(t, 3.25, route.Points[0].Latitude)
}

func TestRides_RideDetailsFallbackKeepsRequestedID(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/rides/ride_404", errors.New("boom"))
	rides, _ := newRides(api)

	ride := rides.RideDetails(context.Background(), "ride_404")
	assert.Equal(t, "ride_404", ride.ID)
	assert.Equal(t, "Unknown Driver", ride.CreatorName)
	assert.Equal(t, "unknown", ride.Status)
}

func TestRides_PendingDriverRidesFallbackIsEmpty(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/rides/pending-driver", errors.New("boom"))
	rides, _ := newRides(api)

	pending := rides.PendingDriverRides(context.Background())
	assert.NotNil(t, pending)
	assert.Empty(t, pending)
}

func TestRides_LocationSuggestions(t *testing.T) {
	rides, _ := newRides(newFakeAPI())

	suggestions := rides.LocationSuggestions()
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "loc_001", suggestions[0].ID)
}
