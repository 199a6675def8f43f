package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ridematch/client-go/internal/models"
)

// EmergencyContacts prints the configured contacts and hotlines, and
// offers to add one.
func (a *App) EmergencyContacts(ctx context.Context) error {
	contacts := a.safety.EmergencyContacts(ctx)
	for _, c := range contacts {
		fmt.Printf("%s (%s): %s\n", c.Name, c.Type, c.Value)
	}

	answer, err := getSimpleText(a.reader, "Add a contact? (name or empty to skip)", os.Stdout)
	if err != nil || answer == "" {
		return err
	}
	value, err := getSimpleText(a.reader, "Phone number or email", os.Stdout)
	if err != nil {
		return err
	}
	kind := "phone"
	if strings.Contains(value, "@") {
		kind = "email"
	}
	ack, err := a.safety.AddEmergencyContact(ctx, models.EmergencyContact{Name: answer, Type: kind, Value: value})
	if err != nil {
		return err
	}
	fmt.Println(ack.Message)
	return nil
}

// SOS raises an emergency alert. This path is strict: any failure is
// printed loudly along with the hotline numbers from the bundled
// snapshot, so the user always has a number to call.
func (a *App) SOS(ctx context.Context) error {
	rideID, err := getSimpleText(a.reader, "Ride id", os.Stdout)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type (medical/safety/accident/harassment/other)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "What is happening? (optional)", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.safety.TriggerEmergencyAlert(ctx, models.EmergencyAlert{
		RideID:      rideID,
		Type:        models.EmergencyType(kind),
		Description: description,
	})
	if err != nil {
		fmt.Println("ALERT COULD NOT BE SENT. Call emergency services directly:")
		for _, c := range a.safety.EmergencyContacts(ctx) {
			fmt.Printf("  %s: %s\n", c.Name, c.Value)
		}
		return err
	}

	fmt.Println(res.Message)
	fmt.Printf("Police %s  Medical %s  Support %s\n", res.Police, res.Medical, res.Support)
	return nil
}
