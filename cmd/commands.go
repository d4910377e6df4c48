package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"rideNext/internal/api"
	"rideNext/internal/forms"
	"rideNext/internal/models"
	"rideNext/internal/mybookings"
	"rideNext/internal/search"
)

// errReported marks a failure that was already shown to the user.
var errReported = errors.New("reported")

type command struct {
	summary string
	run     func(app *application, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"login":          {"log in and remember the session", (*application).cmdLogin},
	"register":       {"create an account", (*application).cmdRegister},
	"logout":         {"forget the stored session", (*application).cmdLogout},
	"profile":        {"show your profile", (*application).cmdProfile},
	"profile-update": {"change profile fields", (*application).cmdProfileUpdate},
	"post-ride":      {"offer a ride", (*application).cmdPostRide},
	"search":         {"filter the ride catalog", (*application).cmdSearch},
	"ride":           {"show one ride", (*application).cmdRide},
	"book":           {"book seats on a ride", (*application).cmdBook},
	"mybookings":     {"show your bookings, rides and requests", (*application).cmdMyBookings},
	"approve":        {"approve a booking request", (*application).cmdApprove},
	"decline":        {"decline a booking request", (*application).cmdDecline},
	"serve-stub":     {"run the in-memory development backend", (*application).cmdServeStub},
}

func (app *application) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		app.usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		app.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(app, ctx, args[1:])
}

func (app *application) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(app.out, "usage: ridenext <command> [flags]")
	fmt.Fprintln(app.out)
	for _, name := range names {
		fmt.Fprintf(app.out, "  %-15s %s\n", name, commands[name].summary)
	}
}

func (app *application) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.out)
	return fs
}

func (app *application) notifier() cliNotifier {
	return cliNotifier{out: app.out}
}

// fail shows message the way the screens do and marks the error as reported.
func (app *application) fail(message string, err error) error {
	app.notifier().Error("Error", message)
	if err != nil {
		app.logger.Debug("command failed", "err", err)
	}
	return errReported
}

func (app *application) cmdLogin(ctx context.Context, args []string) error {
	fs := app.flagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := app.auth.Login(ctx, *email, *password)
	switch {
	case models.IsValidation(err):
		return app.fail(err.Error(), err)
	case errors.Is(err, models.ErrInvalidCredentials):
		return app.fail(api.UserMessage(err, "Invalid email or password"), err)
	case err != nil:
		return app.fail(api.UserMessage(err, "Login failed"), err)
	}
	app.notifier().Success("Success", "Welcome "+s.FullName)
	return nil
}

func (app *application) cmdRegister(ctx context.Context, args []string) error {
	fs := app.flagSet("register")
	var req models.RegisterRequest
	fs.StringVar(&req.FullName, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&req.PhoneNumber, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := app.auth.Register(ctx, req)
	if err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			return app.fail(verr.Error(), err)
		}
		return app.fail(api.UserMessage(err, "Signup failed"), err)
	}
	app.notifier().Success("Success", fmt.Sprintf("Account created for %s. You can log in now.", user.Email))
	return nil
}

func (app *application) cmdLogout(ctx context.Context, args []string) error {
	if err := app.auth.Logout(ctx); err != nil {
		return app.fail("Logout failed", err)
	}
	app.notifier().Success("Success", "Logged out")
	return nil
}

func (app *application) currentUserID(ctx context.Context, missing string) (string, error) {
	id, err := app.sessions.UserID(ctx)
	if errors.Is(err, models.ErrNoSession) {
		return "", app.fail(missing, err)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (app *application) cmdProfile(ctx context.Context, args []string) error {
	userID, err := app.currentUserID(ctx, "No user ID found. Please login again.")
	if err != nil {
		return err
	}
	user, err := app.auth.GetProfile(ctx, userID)
	if err != nil {
		return app.fail(api.UserMessage(err, "Failed to load profile"), err)
	}
	return renderProfile(app.out, user)
}

func (app *application) cmdProfileUpdate(ctx context.Context, args []string) error {
	fs := app.flagSet("profile-update")
	var patch models.User
	fs.StringVar(&patch.FullName, "name", "", "full name")
	fs.StringVar(&patch.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&patch.DateOfBirth, "dob", "", "date of birth")
	fs.StringVar(&patch.City, "city", "", "city")
	fs.StringVar(&patch.AccountType, "account-type", "", "passenger or driver")
	fs.StringVar(&patch.Bio, "bio", "", "about you")
	fs.StringVar(&patch.CarModel, "car", "", "car model")
	fs.StringVar(&patch.LicensePlate, "plate", "", "license plate")
	fs.StringVar(&patch.DrivingLicenseNumber, "license", "", "driving license number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := app.currentUserID(ctx, "User ID not found. Please login again.")
	if err != nil {
		return err
	}
	current, err := app.auth.GetProfile(ctx, userID)
	if err != nil {
		return app.fail(api.UserMessage(err, "Failed to load profile"), err)
	}

	fields := map[string]*string{
		"name":         &current.FullName,
		"phone":        &current.PhoneNumber,
		"dob":          &current.DateOfBirth,
		"city":         &current.City,
		"account-type": &current.AccountType,
		"bio":          &current.Bio,
		"car":          &current.CarModel,
		"plate":        &current.LicensePlate,
		"license":      &current.DrivingLicenseNumber,
	}
	fs.Visit(func(f *flag.Flag) {
		if dst, ok := fields[f.Name]; ok {
			*dst = f.Value.String()
		}
	})

	updated, err := app.auth.UpdateProfile(ctx, userID, current)
	if err != nil {
		return app.fail(api.UserMessage(err, "Update failed"), err)
	}
	app.notifier().Success("Success", "Profile updated successfully!")
	return renderProfile(app.out, updated)
}

func (app *application) cmdPostRide(ctx context.Context, args []string) error {
	fs := app.flagSet("post-ride")
	form := forms.NewPostRideForm()
	fs.StringVar(&form.FromCity, "from", "", "departure city (required)")
	fs.StringVar(&form.ToCity, "to", "", "destination city (required)")
	fs.StringVar(&form.PickupLocation, "pickup", "", "pickup location")
	fs.StringVar(&form.DropLocation, "drop", "", "drop location")
	fs.StringVar(&form.DepartureDate, "date", "", "departure date YYYY-MM-DD (required)")
	fs.StringVar(&form.DepartureTime, "time", "", "departure time HH:mm (required)")
	fs.StringVar(&form.AvailableSeats, "seats", "", "available seats (required)")
	fs.StringVar(&form.PricePerSeat, "price", "", "price per seat (required)")
	fs.StringVar(&form.CarModel, "car", "", "car model")
	fs.BoolVar(&form.SmokingAllowed, "smoking", form.SmokingAllowed, "smoking allowed")
	fs.BoolVar(&form.MusicAllowed, "music", form.MusicAllowed, "music allowed")
	fs.BoolVar(&form.PetsAllowed, "pets", form.PetsAllowed, "pets allowed")
	fs.BoolVar(&form.InstantBooking, "instant", form.InstantBooking, "instant booking")
	fs.StringVar(&form.Notes, "notes", "", "notes for passengers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := app.currentUserID(ctx, "No user ID found. Please login again.")
	if err != nil {
		return err
	}
	req, err := form.ToRequest(userID)
	if err != nil {
		return app.fail(err.Error(), err)
	}
	ride, err := app.rides.CreateRide(ctx, req)
	if err != nil {
		return app.fail(api.UserMessage(err, "Failed to post ride"), err)
	}
	app.notifier().Success("Success", "Ride posted successfully!")
	if ride.ID != "" {
		fmt.Fprintf(app.out, "ride id: %s\n", ride.ID)
	}
	return nil
}

func (app *application) cmdSearch(ctx context.Context, args []string) error {
	fs := app.flagSet("search")
	var c search.Criteria
	fs.StringVar(&c.FromCity, "from", "", "departure city contains")
	fs.StringVar(&c.ToCity, "to", "", "destination city contains")
	fs.StringVar(&c.MinPrice, "min-price", "", "minimum price per seat")
	fs.StringVar(&c.MaxPrice, "max-price", "", "maximum price per seat")
	fs.StringVar(&c.MinSeats, "min-seats", "", "minimum available seats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := c.Compile(); err != nil {
		return app.fail(err.Error(), err)
	}

	catalog := search.NewCatalog(app.rides, app.logger)
	if err := catalog.Load(ctx); err != nil {
		return app.fail("Failed to load rides", err)
	}
	rides, err := catalog.Search(c)
	if err != nil {
		return app.fail(err.Error(), err)
	}
	return renderRides(app.out, rides)
}

func (app *application) cmdRide(ctx context.Context, args []string) error {
	fs := app.flagSet("ride")
	id := fs.String("id", "", "ride id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rideID := firstNonEmpty(*id, fs.Arg(0))
	if rideID == "" {
		return errors.New("ride id is required")
	}

	ride, err := app.rides.GetRide(ctx, rideID)
	if errors.Is(err, models.ErrRideNotFound) {
		return app.fail("No ride found.", err)
	}
	if err != nil {
		return app.fail(api.UserMessage(err, "Failed to load ride"), err)
	}
	return renderRide(app.out, ride)
}

func (app *application) cmdBook(ctx context.Context, args []string) error {
	fs := app.flagSet("book")
	rideID := fs.String("ride", "", "ride id")
	form := forms.NewBookingForm()
	fs.StringVar(&form.SeatsBooked, "seats", form.SeatsBooked, "seats to book")
	fs.StringVar(&form.PickupLocation, "pickup", "", "pickup location")
	fs.StringVar(&form.DropLocation, "drop", "", "drop location")
	fs.StringVar(&form.PassengerPhone, "phone", "", "passenger phone")
	fs.StringVar(&form.SpecialRequests, "requests", "", "special requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := firstNonEmpty(*rideID, fs.Arg(0))
	if id == "" {
		return errors.New("ride id is required")
	}

	userID, err := app.sessions.UserID(ctx)
	if err != nil && !errors.Is(err, models.ErrNoSession) {
		return err
	}
	var ride *models.Ride
	if loaded, err := app.rides.GetRide(ctx, id); err == nil {
		ride = &loaded
	} else {
		app.logger.Debug("ride not loaded", "ride_id", id, "err", err)
	}

	req, err := form.Build(ride, userID)
	switch {
	case errors.Is(err, models.ErrNoSession):
		return app.fail("User not logged in", err)
	case errors.Is(err, models.ErrRideNotLoaded):
		return app.fail("Ride not loaded", err)
	case err != nil:
		return app.fail(err.Error(), err)
	}
	booking, err := app.rides.CreateBooking(ctx, req)
	if err != nil {
		return app.fail(api.UserMessage(err, "Failed to create booking"), err)
	}
	app.notifier().Success("Success", fmt.Sprintf("Booking successful! Total %.2f", req.TotalAmount))
	if booking.ID != "" {
		fmt.Fprintf(app.out, "booking id: %s\n", booking.ID)
	}
	return nil
}

func (app *application) screen(confirmer mybookings.Confirmer) *mybookings.Screen {
	return mybookings.NewScreen(mybookings.Config{
		Source:    app.bookings,
		Sessions:  app.sessions,
		Notifier:  app.notifier(),
		Confirmer: confirmer,
		Logger:    app.logger,
	})
}

func (app *application) cmdMyBookings(ctx context.Context, args []string) error {
	fs := app.flagSet("mybookings")
	tab := fs.String("tab", "all", "all, bookings, rides or requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tabs, err := selectTabs(*tab)
	if err != nil {
		return err
	}

	screen := app.screen(nil)
	if err := screen.Load(ctx); err != nil {
		return errReported
	}
	for _, t := range tabs {
		if err := renderTab(app.out, t, screen.Tab(t)); err != nil {
			return err
		}
	}
	return nil
}

func selectTabs(name string) ([]mybookings.Tab, error) {
	switch strings.ToLower(name) {
	case "", "all":
		return []mybookings.Tab{mybookings.TabBookings, mybookings.TabRides, mybookings.TabRequests}, nil
	case string(mybookings.TabBookings):
		return []mybookings.Tab{mybookings.TabBookings}, nil
	case string(mybookings.TabRides):
		return []mybookings.Tab{mybookings.TabRides}, nil
	case string(mybookings.TabRequests):
		return []mybookings.Tab{mybookings.TabRequests}, nil
	default:
		return nil, fmt.Errorf("unknown tab %q", name)
	}
}

func (app *application) cmdApprove(ctx context.Context, args []string) error {
	return app.requestAction(ctx, "approve", args, (*mybookings.Screen).Approve)
}

func (app *application) cmdDecline(ctx context.Context, args []string) error {
	return app.requestAction(ctx, "decline", args, (*mybookings.Screen).Decline)
}

type screenAction func(s *mybookings.Screen, ctx context.Context, bookingID string) (mybookings.Result, error)

func (app *application) requestAction(ctx context.Context, name string, args []string, act screenAction) error {
	fs := app.flagSet(name)
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	bookingID := fs.Arg(0)
	if bookingID == "" {
		return fmt.Errorf("%s: booking id is required", name)
	}

	screen := app.screen(promptConfirmer{in: bufio.NewReader(app.in), out: app.out, assumeYes: *yes})
	res, err := act(screen, ctx, bookingID)
	switch res.Outcome {
	case mybookings.OutcomeCancelled:
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, "Cancelled.")
		return nil
	case mybookings.OutcomeDone:
		return renderTab(app.out, mybookings.TabRequests, screen.Tab(mybookings.TabRequests))
	case mybookings.OutcomeInFlight:
		return err
	default:
		return errReported
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
