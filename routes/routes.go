package routes

import (
	"github.com/julienschmidt/httprouter"

	"eletralog/anomaly"
	"eletralog/audit"
	"eletralog/auth"
	"eletralog/booking"
	"eletralog/lifecycle"
	"eletralog/live"
	"eletralog/masterdata"
	"eletralog/middleware"
	"eletralog/ratelim"
	"eletralog/visits"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *auth.API) {
	router.POST("/api/auth/login", rl.Limit(api.Login))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *booking.API) {
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(api.CreateBooking)))
	router.GET("/api/slots/:date/:location", middleware.Authenticate(api.GetDayGrid))
	router.DELETE("/api/slots/:date/:location/:time", rl.Limit(middleware.Authenticate(api.ReleaseSlot)))
}

func AddVisitRoutes(router *httprouter.Router, api *visits.API) {
	router.GET("/api/visits/:date/:location", middleware.Authenticate(api.ListVisits))
}

func AddLifecycleRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *lifecycle.API) {
	router.POST("/api/status/arrived", rl.Limit(middleware.Authenticate(api.MarkArrived)))
	router.POST("/api/status/unloading", rl.Limit(middleware.Authenticate(api.MarkUnloading)))
	router.POST("/api/status/finished", rl.Limit(middleware.Authenticate(api.MarkFinished)))
}

func AddAnomalyRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *anomaly.API) {
	router.POST("/api/anomalies/flag", rl.Limit(middleware.Authenticate(api.Flag)))
	router.POST("/api/anomalies/resolve", rl.Limit(middleware.Authenticate(api.Resolve)))
	router.GET("/api/anomalies/open", middleware.Authenticate(api.ListOpen))
	router.GET("/api/anomalies/resolved", middleware.Authenticate(api.ListResolved))
}

func AddAuditRoutes(router *httprouter.Router, api *audit.API) {
	router.GET("/api/logs", middleware.Authenticate(api.GetLogs))
}

func AddMasterDataRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, api *masterdata.API) {
	router.GET("/api/users", middleware.Authenticate(api.ListUsers))
	router.POST("/api/users", rl.Limit(middleware.Authenticate(api.CreateUser)))
	router.DELETE("/api/users/:id", rl.Limit(middleware.Authenticate(api.DeleteUser)))

	router.GET("/api/carriers", middleware.Authenticate(api.ListCarriers))
	router.POST("/api/carriers", rl.Limit(middleware.Authenticate(api.CreateCarrier)))
	router.DELETE("/api/carriers/:id", rl.Limit(middleware.Authenticate(api.DeleteCarrier)))

	router.GET("/api/vehicles", middleware.Authenticate(api.ListVehicles))
	router.POST("/api/vehicles", rl.Limit(middleware.Authenticate(api.CreateVehicle)))
	router.PUT("/api/vehicles/:id", rl.Limit(middleware.Authenticate(api.UpdateVehicle)))
	router.DELETE("/api/vehicles/:id", rl.Limit(middleware.Authenticate(api.DeleteVehicle)))

	router.GET("/api/customers", middleware.Authenticate(api.ListCustomers))
	router.POST("/api/customers", rl.Limit(middleware.Authenticate(api.CreateCustomer)))
	router.PUT("/api/customers/:id", rl.Limit(middleware.Authenticate(api.UpdateCustomer)))
	router.DELETE("/api/customers/:id", rl.Limit(middleware.Authenticate(api.DeleteCustomer)))

	router.GET("/api/drivers", middleware.Authenticate(api.ListDrivers))
	router.POST("/api/drivers", rl.Limit(middleware.Authenticate(api.CreateDriver)))
	router.DELETE("/api/drivers/:id", rl.Limit(middleware.Authenticate(api.DeleteDriver)))

	router.GET("/api/vehicle-types", middleware.Authenticate(api.ListVehicleTypes))
}

func AddLiveRoutes(router *httprouter.Router) {
	router.GET("/ws/schedule/:date/:location", live.HandleScheduleWS)
	router.GET("/ws/audit", live.HandleAuditWS)
}
