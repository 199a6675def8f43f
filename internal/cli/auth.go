package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ridematch/client-go/internal/services"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register walks through the two-step signup: account, then rider profile.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	gender, err := getSimpleText(a.reader, "Enter gender", os.Stdout)
	if err != nil {
		return err
	}
	dob, err := getSimpleText(a.reader, "Enter date of birth (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.auth.Register(ctx, services.RegisterForm{
		Name:        name,
		Email:       email,
		Password:    password,
		Gender:      gender,
		DateOfBirth: dob,
	})
	if err != nil {
		return err
	}

	university, err := getSimpleText(a.reader, "Enter university", os.Stdout)
	if err != nil {
		return err
	}
	likes, err := getSimpleText(a.reader, "Enter interests (comma separated)", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.auth.RegisterProfile(ctx, services.ProfileForm{
		UserID:     res.UserID,
		University: university,
		Likes:      likes,
	}); err != nil {
		return err
	}

	fmt.Println("Account created. Log in to continue.")
	return nil
}

// Login authenticates and persists the session locally.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s!\n", sess.Name)
	return nil
}

// Logout wipes the stored credentials and tears down the channel.
func (a *App) Logout(ctx context.Context) error {
	a.messaging.Disconnect()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// WhoAmI prints the stored identity and the live profile when available.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.auth.UserInfo(ctx)
	if err != nil {
		return err
	}
	if sess.UserID == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	profile := a.auth.Profile(ctx)
	fmt.Printf("%s <%s> (%s)\n", profile.Name, profile.Email, sess.Role)
	fmt.Printf("Rating %.1f over %d rides, wallet %.2f\n", profile.Rating, profile.TotalRides, profile.WalletBalance)
	return nil
}
