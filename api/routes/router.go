package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/lockerbox-backend/api/controllers"
	"github.com/angelmondragon/lockerbox-backend/api/middleware"
	"github.com/angelmondragon/lockerbox-backend/internal/auth"
	"github.com/angelmondragon/lockerbox-backend/internal/categories"
	"github.com/angelmondragon/lockerbox-backend/internal/cities"
	"github.com/angelmondragon/lockerbox-backend/internal/lockers"
	"github.com/angelmondragon/lockerbox-backend/internal/machines"
	"github.com/angelmondragon/lockerbox-backend/internal/matrix"
	"github.com/angelmondragon/lockerbox-backend/internal/orders"
	"github.com/angelmondragon/lockerbox-backend/internal/producers"
	"github.com/angelmondragon/lockerbox-backend/internal/products"
	"github.com/angelmondragon/lockerbox-backend/internal/statuses"
	"github.com/angelmondragon/lockerbox-backend/internal/users"
	"github.com/angelmondragon/lockerbox-backend/pkg/auth/session"
	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db/models"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/lockerbox-backend/pkg/redis"
)

// RedisStore is the redis surface used by rate limiting and idempotency.
type RedisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

type SessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, userID uint, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type CategoryService interface {
	controllers.CRUDService[models.ProductCategory, categories.CreateInput, categories.UpdateInput]
	controllers.CategoryReader
}

type MachineService interface {
	controllers.CRUDService[models.VendingMachine, machines.CreateInput, machines.UpdateInput]
	controllers.MachineReader
}

type OrderService interface {
	controllers.CRUDService[models.Order, orders.CreateInput, orders.UpdateInput]
	controllers.OrderReader
}

// Deps is the application context handed to the router at startup.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Ready    map[string]controllers.Pinger
	Redis    RedisStore
	Sessions SessionManager
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Auth       auth.Service
	Uploads    controllers.UploadOpener
	Cities     controllers.CRUDService[models.City, cities.CreateInput, cities.UpdateInput]
	Producers  controllers.CRUDService[models.Producer, producers.CreateInput, producers.UpdateInput]
	Products   controllers.CRUDService[models.Product, products.CreateInput, products.UpdateInput]
	Categories CategoryService
	Statuses   controllers.CRUDService[models.Status, statuses.CreateInput, statuses.UpdateInput]
	Matrix     controllers.CRUDService[models.MatrixElement, matrix.CreateInput, matrix.UpdateInput]
	Users      controllers.CRUDService[models.User, users.CreateInput, users.UpdateInput]
	Lockers    controllers.CRUDService[models.Locker, lockers.CreateInput, lockers.UpdateInput]
	Machines   MachineService
	Orders     OrderService
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(d.Metrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	rateStore := rateLimitStore(d.Redis)
	idemStore := idempotencyStore(d.Redis)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, d.Ready, logg))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(d.Sessions, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Sessions, cfg.JWT, logg))
		})

		r.Get("/upload/{folder}/{name}", controllers.ServeUpload(d.Uploads, logg))
		r.Get("/vendingmachine/uuid/{uuid}", controllers.MachineByUUID(d.Machines, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Route("/city", controllers.NewResource("city", d.Cities, logg).Mount)
			r.Route("/producer", controllers.NewResource("producer", d.Producers, logg).Mount)
			r.Route("/product", controllers.NewResource("product", d.Products, logg).Mount)
			r.Route("/status", controllers.NewResource("status", d.Statuses, logg).Mount)
			r.Route("/matrixelement", controllers.NewResource("matrix element", d.Matrix, logg).Mount)
			r.Route("/user", controllers.NewResource("user", d.Users, logg).Mount)
			r.Route("/locker", controllers.NewResource("locker", d.Lockers, logg).Mount)

			r.Route("/productcategory", func(r chi.Router) {
				controllers.NewResource[models.ProductCategory, categories.CreateInput, categories.UpdateInput]("product category", d.Categories, logg).Mount(r)
				r.Get("/{id}/products", controllers.CategoryProducts(d.Categories, logg))
			})

			r.Route("/vendingmachine", func(r chi.Router) {
				controllers.NewResource[models.VendingMachine, machines.CreateInput, machines.UpdateInput]("vending machine", d.Machines, logg).Mount(r)
				r.Get("/{id}/lockers", controllers.MachineLockers(d.Machines, logg))
			})

			r.Route("/order", func(r chi.Router) {
				controllers.NewResource[models.Order, orders.CreateInput, orders.UpdateInput]("order", d.Orders, logg).Mount(r)
				r.Get("/{id}/products", controllers.OrderProducts(d.Orders, logg))
				r.Get("/{id}/lockers", controllers.OrderLockers(d.Orders, logg))
				r.Get("/user/{id}", controllers.UserOrders(d.Orders, logg))
				r.Get("/user/{id}/active", controllers.UserActiveOrders(d.Orders, logg))
				r.Get("/user/{id}/archive", controllers.UserArchivedOrders(d.Orders, logg))
			})
		})
	})

	return r
}

// rateLimitStore and idempotencyStore keep a nil RedisStore a true nil so the
// middlewares can detect it.
func rateLimitStore(s RedisStore) interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
} {
	if s == nil {
		return nil
	}
	return s
}

func idempotencyStore(s RedisStore) pkgredis.IdempotencyStore {
	if s == nil {
		return nil
	}
	return s
}
