package routes

import (
	"github.com/gorilla/mux"

	"github.com/dcode-github/rental_booking_system/booking"
	"github.com/dcode-github/rental_booking_system/cache"
	"github.com/dcode-github/rental_booking_system/controllers"
	"github.com/dcode-github/rental_booking_system/middleware"
)

func Routes(router *mux.Router, repo controllers.Repository, svc *booking.Service, c cache.Cache, jwtKey []byte) {
	router.HandleFunc("/health", controllers.Health()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public catalog
	api.HandleFunc("/properties", controllers.GetPublishedProperties(repo, c)).Methods("GET")
	api.HandleFunc("/properties/{id}", controllers.GetPublishedProperty(repo, c)).Methods("GET")
	api.HandleFunc("/properties/{id}/quote", controllers.QuoteBooking(svc)).Methods("GET")

	// Booking submission, signed-in or anonymous
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(middleware.OptionalAuth(jwtKey))
	bookings.HandleFunc("", controllers.SubmitBooking(svc)).Methods("POST")

	// Owner dashboard
	dashboard := api.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middleware.AuthMiddleware(jwtKey))

	dashboard.HandleFunc("/properties", controllers.CreateProperty(repo, c)).Methods("POST")
	dashboard.HandleFunc("/properties", controllers.GetOwnerProperties(repo)).Methods("GET")
	dashboard.HandleFunc("/properties/{id}", controllers.UpdateProperty(repo, c)).Methods("PUT")
	dashboard.HandleFunc("/properties/{id}", controllers.UpdatePropertyStatus(repo, c)).Methods("PATCH")
	dashboard.HandleFunc("/properties/{id}", controllers.DeleteProperty(repo, c)).Methods("DELETE")

	dashboard.HandleFunc("/bookings", controllers.GetOwnerBookings(repo)).Methods("GET")
	dashboard.HandleFunc("/bookings/{id}", controllers.UpdateBookingStatus(svc)).Methods("PATCH")
}
