package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ridematch/client-go/internal/models"
	"github.com/ridematch/client-go/internal/services"
)

var errMissingRideID = errors.New("usage: <command> <ride_id>")

// ListRides prints joinable rides, optionally filtered by sector
// ("rides north").
func (a *App) ListRides(ctx context.Context, args []string) error {
	sector := ""
	if len(args) > 0 {
		sector = args[0]
	}

	list := a.rides.AvailableRides(ctx, sector)
	if len(list.Rides) == 0 {
		fmt.Println("No rides available.")
		return nil
	}

	for _, ride := range list.Rides {
		flag := ""
		if ride.AlreadyJoined {
			flag = " (joined)"
		}
		fmt.Printf("%s  %s -> %s  %s  %.2f  %d/%d seats%s\n",
			ride.ID, ride.Pickup.Address, ride.Dropoff.Address,
			ride.DepartureTime.Format("Jan 2 15:04"),
			ride.Fare, ride.AvailableSlots, ride.PassengerSlots, flag)
	}
	if a.Mode() == ModeOffline {
		fmt.Println("(offline: listing may be sample data)")
	}
	return nil
}

// CreateRide interactively publishes a ride offer. Pickup and dropoff can
// be chosen from the bundled suggestions or typed in.
func (a *App) CreateRide(ctx context.Context) error {
	suggestions := a.rides.LocationSuggestions()
	fmt.Println("Known locations:")
	for i, s := range suggestions {
		fmt.Printf("  %d. %s\n", i+1, s.Address)
	}

	pickup, err := a.promptLocation("Pickup (number or address)", suggestions)
	if err != nil {
		return err
	}
	dropoff, err := a.promptLocation("Dropoff (number or address)", suggestions)
	if err != nil {
		return err
	}
	carType, err := getSimpleText(a.reader, "Car type", os.Stdout)
	if err != nil {
		return err
	}
	slots, err := GetInt(a.reader, "Passenger slots [3]", 3, os.Stdout)
	if err != nil {
		return err
	}
	fare, err := GetFloat(a.reader, "Fare per seat", 0, os.Stdout)
	if err != nil {
		return err
	}
	departure, err := getSimpleText(a.reader, "Departure (RFC3339, empty = 1h from now)", os.Stdout)
	if err != nil {
		return err
	}
	when := time.Now().Add(time.Hour)
	if departure != "" {
		when, err = time.Parse(time.RFC3339, departure)
		if err != nil {
			return fmt.Errorf("bad departure time: %w", err)
		}
	}

	ack := a.rides.CreateRide(ctx, services.CreateRideForm{
		Pickup:         pickup,
		Dropoff:        dropoff,
		CarType:        carType,
		PassengerSlots: slots,
		TimeToReach:    when,
		PaymentMethod:  "wallet",
		Fare:           fare,
	})
	fmt.Println(ack.Message)
	return nil
}

// JoinRide requests a seat on the given ride.
func (a *App) JoinRide(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errMissingRideID
	}
	rideID := args[0]

	ride := a.rides.RideDetails(ctx, rideID)
	if !ride.CanJoin && ride.Status != "unknown" {
		fmt.Println("That ride cannot be joined.")
		return nil
	}

	pickup, err := a.promptLocation("Your pickup point", a.rides.LocationSuggestions())
	if err != nil {
		return err
	}
	ack := a.rides.JoinRide(ctx, services.JoinRideForm{RideID: rideID, Pickup: pickup})
	fmt.Println(ack.Message)
	return nil
}

// LeaveRide drops out of a ride. Best-effort.
func (a *App) LeaveRide(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errMissingRideID
	}
	ack := a.rides.LeaveRide(ctx, args[0])
	fmt.Println(ack.Message)
	return nil
}

// ShowHistory prints past rides and offers to rate the last completed one.
func (a *App) ShowHistory(ctx context.Context) error {
	result := a.history.RideHistory(ctx)
	if len(result.Rides) == 0 {
		fmt.Println("No ride history.")
		return nil
	}
	for _, ride := range result.Rides {
		rated := ""
		if ride.Rating > 0 {
			rated = fmt.Sprintf("  rated %d/5", ride.Rating)
		}
		fmt.Printf("%s  %s -> %s  %s  %.2f%s\n",
			ride.ID, ride.PickupAddress, ride.DropoffAddress, ride.Status, ride.Fare, rated)
	}

	answer, err := getSimpleText(a.reader, "Rate a ride? (ride_id or empty to skip)", os.Stdout)
	if err != nil || answer == "" {
		return err
	}
	rating, err := GetInt(a.reader, "Rating 1-5", 5, os.Stdout)
	if err != nil {
		return err
	}
	feedback, err := getSimpleText(a.reader, "Feedback (optional)", os.Stdout)
	if err != nil {
		return err
	}
	a.history.SubmitRating(ctx, answer, rating, feedback)
	fmt.Println("Thanks for the rating.")
	return nil
}

// promptLocation accepts either an index into suggestions or a free-form
// address with no coordinates.
func (a *App) promptLocation(prompt string, suggestions []models.LocationSuggestion) (models.Location, error) {
	text, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return models.Location{}, err
	}
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(suggestions) {
		s := suggestions[n-1]
		return models.Location{Address: s.Address, Latitude: s.Latitude, Longitude: s.Longitude}, nil
	}
	return models.Location{Address: text}, nil
}
