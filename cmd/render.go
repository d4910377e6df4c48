package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rideNext/internal/models"
	"rideNext/internal/mybookings"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderRides(w io.Writer, rides []models.Ride) error {
	if len(rides) == 0 {
		_, err := fmt.Fprintln(w, "No rides found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tDATE\tTIME\tSEATS\tPRICE\tDRIVER")
	for _, r := range rides {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			r.ID, r.FromCity, r.ToCity, r.DepartureDate, r.DepartureTime, r.AvailableSeats, r.PricePerSeat, driverName(r))
	}
	return tw.Flush()
}

func driverName(r models.Ride) string {
	if r.Driver != nil && r.Driver.FullName != "" {
		return r.Driver.FullName
	}
	return r.UserID.FullName
}

func renderRide(w io.Writer, r models.Ride) error {
	tw := newTable(w)
	rows := [][2]string{
		{"Ride", r.ID},
		{"From", r.FromCity},
		{"To", r.ToCity},
		{"Pickup", r.PickupLocation},
		{"Drop", r.DropLocation},
		{"Departure", strings.TrimSpace(r.DepartureDate + " " + r.DepartureTime)},
		{"Seats left", fmt.Sprint(r.AvailableSeats)},
		{"Price per seat", fmt.Sprintf("%.2f", r.PricePerSeat)},
		{"Driver", driverName(r)},
		{"Car", r.CarModel},
		{"Smoking", yesNo(r.SmokingAllowed)},
		{"Music", yesNo(r.MusicAllowed)},
		{"Pets", yesNo(r.PetsAllowed)},
		{"Instant booking", yesNo(r.InstantBooking)},
		{"Notes", r.Notes},
	}
	if r.Driver != nil && r.Driver.CarModel != "" && r.CarModel == "" {
		rows[9][1] = r.Driver.CarModel
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func renderProfile(w io.Writer, u models.User) error {
	tw := newTable(w)
	rows := [][2]string{
		{"Name", u.FullName},
		{"Email", u.Email},
		{"Phone", u.PhoneNumber},
		{"Date of birth", u.DateOfBirth},
		{"City", u.City},
		{"Account type", u.AccountType},
		{"Bio", u.Bio},
		{"Car", u.CarModel},
		{"License plate", u.LicensePlate},
		{"Driving license", u.DrivingLicenseNumber},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

var tabTitles = map[mybookings.Tab]string{
	mybookings.TabBookings: "My bookings",
	mybookings.TabRides:    "My rides",
	mybookings.TabRequests: "Requests",
}

func renderTab(w io.Writer, tab mybookings.Tab, items []models.Booking) error {
	fmt.Fprintf(w, "== %s ==\n", tabTitles[tab])
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Nothing here yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tDATE\tSEATS\tTOTAL\tCONTACT\tPHONE\tSTATUS")
	for _, b := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			b.ID, b.FromCity, b.ToCity, b.DepartureDate, b.Seats(), b.TotalAmount,
			b.UserID.FullName, b.UserID.PhoneNumber, b.Status)
	}
	return tw.Flush()
}
