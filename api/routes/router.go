package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blazetaller/taller-backend/api/controllers"
	"github.com/blazetaller/taller-backend/api/middleware"
	"github.com/blazetaller/taller-backend/internal/appointments"
	"github.com/blazetaller/taller-backend/internal/catalog"
	"github.com/blazetaller/taller-backend/internal/notifications"
	"github.com/blazetaller/taller-backend/internal/owners"
	"github.com/blazetaller/taller-backend/internal/payments"
	"github.com/blazetaller/taller-backend/internal/processes"
	"github.com/blazetaller/taller-backend/internal/provisioning"
	"github.com/blazetaller/taller-backend/internal/quotations"
	"github.com/blazetaller/taller-backend/internal/staff"
	"github.com/blazetaller/taller-backend/internal/vehicles"
	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Provisioning  provisioning.Service
	Owners        owners.Service
	Staff         staff.Service
	Vehicles      vehicles.Service
	Catalog       catalog.Service
	Quotations    quotations.Service
	Processes     processes.Service
	Payments      payments.Service
	Appointments  appointments.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var groups controllers.GroupChecker
	if svc.Provisioning != nil {
		groups = svc.Provisioning
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, groups))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", controllers.CreateUser(svc.Provisioning, logg))

		r.Route("/owners", func(r chi.Router) {
			r.Post("/", controllers.CreateOwner(svc.Owners, logg))
			r.Get("/{ownerId}", controllers.GetOwner(svc.Owners, logg))
			r.Delete("/{ownerId}", controllers.DeleteOwner(svc.Owners, logg))
			r.Get("/{ownerId}/vehicles", controllers.OwnerVehicles(svc.Owners, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/workers", controllers.ListWorkers(svc.Staff, logg))
			r.Post("/{kind}", controllers.CreateStaff(svc.Staff, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/", controllers.CreateVehicle(svc.Vehicles, logg))
			r.Get("/{vehicleId}", controllers.GetVehicle(svc.Vehicles, logg))
			r.Put("/{vehicleId}", controllers.UpdateVehicle(svc.Vehicles, logg))
			r.Get("/{vehicleId}/processes", controllers.VehicleProcesses(svc.Processes, logg))
			r.Get("/{vehicleId}/appointments", controllers.VehicleAppointments(svc.Appointments, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListServices(svc.Catalog, logg))
			r.Post("/", controllers.CreateService(svc.Catalog, logg))
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", controllers.CreateQuotation(svc.Quotations, logg))
			r.Route("/{quotationId}", func(r chi.Router) {
				r.Get("/", controllers.GetQuotation(svc.Quotations, logg))
				r.Post("/items", controllers.AddQuotationItem(svc.Quotations, logg))
				r.Patch("/items/{itemId}", controllers.UpdateQuotationItem(svc.Quotations, logg))
				r.Delete("/items/{itemId}", controllers.DeleteQuotationItem(svc.Quotations, logg))
				r.Post("/decision", controllers.DecideQuotation(svc.Quotations, logg))
			})
		})

		r.Route("/processes", func(r chi.Router) {
			r.Post("/", controllers.CreateProcess(svc.Processes, logg))
			r.Route("/{processId}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateProcessProgress(svc.Processes, logg))
				r.Get("/payments", controllers.ProcessPayments(svc.Payments, logg))
				r.Post("/payments", controllers.RecordPayment(svc.Payments, logg))
				r.Get("/notifications", controllers.ListNotifications(svc.Notifications, logg))
				r.Post("/notifications", controllers.CreateNotification(svc.Notifications, logg))
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", controllers.ScheduleAppointment(svc.Appointments, logg))
			r.Post("/{appointmentId}/status", controllers.SetAppointmentStatus(svc.Appointments, logg))
		})

		r.Route("/notifications/{notificationId}", func(r chi.Router) {
			r.Post("/sent", controllers.MarkNotificationSent(svc.Notifications, logg))
			r.Post("/seen", controllers.MarkNotificationSeen(svc.Notifications, logg))
			r.Post("/cancel", controllers.CancelNotification(svc.Notifications, logg))
		})
	})

	return r
}
