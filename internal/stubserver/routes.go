package stubserver

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

// Routes returns the backend's HTTP handler.
func (s *Server) Routes() http.Handler {
	standardMiddleware := alice.New(s.recoverPanic, s.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(s.requireAuth)

	mux := pat.New()

	// Users
	mux.Post("/register", standardMiddleware.ThenFunc(s.register))
	mux.Post("/login", standardMiddleware.ThenFunc(s.login))
	mux.Get("/getuser/:id", authMiddleware.ThenFunc(s.getUser))
	mux.Put("/updateregister", authMiddleware.ThenFunc(s.updateProfile))

	// Rides
	mux.Post("/createride", authMiddleware.ThenFunc(s.createRide))
	mux.Get("/getride", standardMiddleware.ThenFunc(s.listRides))
	mux.Get("/getdatabyid/:id", standardMiddleware.ThenFunc(s.getRide))

	// Bookings
	mux.Post("/createbooking", authMiddleware.ThenFunc(s.createBooking))
	mux.Get("/pasengertab/:userid", authMiddleware.ThenFunc(s.passengerTab))
	mux.Get("/drivertab/:userid", authMiddleware.ThenFunc(s.driverTab))
	mux.Get("/bookingrequest/:userid", authMiddleware.ThenFunc(s.bookingRequests))
	mux.Add("PATCH", "/approvecanclerequest/:bookingId", authMiddleware.ThenFunc(s.setBookingStatus))

	return mux
}
