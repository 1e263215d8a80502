package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelflow/fuelops-backend/api/controllers"
	ordercontrollers "github.com/fuelflow/fuelops-backend/api/controllers/orders"
	"github.com/fuelflow/fuelops-backend/api/middleware"
	"github.com/fuelflow/fuelops-backend/internal/addresses"
	"github.com/fuelflow/fuelops-backend/internal/assets"
	"github.com/fuelflow/fuelops-backend/internal/catalog"
	"github.com/fuelflow/fuelops-backend/internal/customers"
	internalorders "github.com/fuelflow/fuelops-backend/internal/orders"
	"github.com/fuelflow/fuelops-backend/internal/slots"
	pkgauth "github.com/fuelflow/fuelops-backend/pkg/auth"
	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/db"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
	"github.com/fuelflow/fuelops-backend/pkg/redis"
)

// Services bundles the order-desk services the router mounts.
type Services struct {
	Customers customers.Service
	Catalog   catalog.Service
	Addresses addresses.Service
	Slots     slots.Service
	Assets    assets.Service
	Orders    internalorders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	verifyPolicy := middleware.NewOTPRateLimitPolicy(
		"verify",
		cfg.RateLimit.OTPWindow,
		cfg.RateLimit.OTPVerifyIPLimit,
		cfg.RateLimit.OTPVerifyOrderLimit,
	)
	resendPolicy := middleware.NewOTPRateLimitPolicy(
		"resend",
		cfg.RateLimit.OTPWindow,
		cfg.RateLimit.OTPResendIPLimit,
		cfg.RateLimit.OTPResendOrderLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/operations/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(pkgauth.PermOrdersRead, logg))
			r.Get("/get-approved-customers", ordercontrollers.GetApprovedCustomers(svcs.Customers, logg))
			r.Get("/get-products/{cid}", ordercontrollers.GetProducts(svcs.Catalog, logg))
			r.Get("/get-shipping-addresses/{cid}", ordercontrollers.GetShippingAddresses(svcs.Addresses, logg))
			r.Get("/get-billing-address/{cid}", ordercontrollers.GetBillingAddresses(svcs.Addresses, logg))
			r.Get("/time-slots/next-7-days", ordercontrollers.TimeSlotsNextSevenDays(svcs.Slots, logg))
			r.Get("/get-assets", ordercontrollers.GetAssets(svcs.Assets, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(pkgauth.PermOrdersWrite, logg))
			r.Post("/add-shipping-address/{cid}", ordercontrollers.AddShippingAddress(svcs.Addresses, logg))
			r.Post("/add-billing-address/{cid}", ordercontrollers.AddBillingAddress(svcs.Addresses, logg))
			r.Post("/create-order/{cid}", ordercontrollers.CreateOrder(svcs.Orders, svcs.Customers, logg))
			r.With(middleware.OTPRateLimit(verifyPolicy, redisClient, logg)).
				Post("/verify-placement-otp", ordercontrollers.VerifyPlacementOTP(svcs.Orders, logg))
			r.With(middleware.OTPRateLimit(resendPolicy, redisClient, logg)).
				Post("/resend-placement-otp", ordercontrollers.ResendPlacementOTP(svcs.Orders, logg))
		})
	})

	return r
}
