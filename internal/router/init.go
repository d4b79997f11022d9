package router

import (
	"context"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/container"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	pginfra "github.com/oksasatya/campus-events/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-events/internal/infrastructure/search"
	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/router/modules"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// Services holds the application layer built from the container.
type Services struct {
	Users         *application.UserService
	Catalog       *application.CatalogService
	Registrations *application.RegistrationService
	Passes        *application.PassService
	Reports       *application.ReportService
	Verifier      *application.VerificationService
	MyEvents      handlers.MyEventsFunc
}

// optional dependencies stay untyped nil when their client is absent so the
// services can test them against nil.
func notifier() application.Notifier {
	if pub := container.GetRabbitPub(); pub != nil {
		return pub
	}
	return nil
}

func eventSearcher() application.EventSearcher {
	if es := container.GetES(); es != nil {
		return search.NewEventIndex(es, container.GetConfig().ESEventsIndex)
	}
	return nil
}

func imageStore() application.ImageStore {
	cfg := container.GetConfig()
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		return helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	return nil
}

func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	events := pginfra.NewEventRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	regs := pginfra.NewRegistrationRepository(pool)

	n := notifier()
	return Services{
		Users:         application.NewUserService(users, container.GetJWT(), container.GetRedis(), n, cfg, logger),
		Catalog:       application.NewCatalogService(events, regs, eventSearcher(), imageStore(), cfg, logger),
		Registrations: application.NewRegistrationService(events, profiles, regs, n, cfg, logger),
		Passes:        application.NewPassService(regs, cfg.QRSize),
		Reports:       application.NewReportService(events, regs),
		Verifier:      application.NewVerificationService(regs, logger),
		MyEvents: func(ctx context.Context, p *application.Principal) ([]entity.RegistrationDetail, error) {
			return application.MyEvents(ctx, regs, p)
		},
	}
}

// InitModules builds every feature module and registers it with the registry.
// It should be called once during startup, after the container is filled.
func InitModules(r *Registry, checks map[string]func(ctx context.Context) error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()
	svc := BuildServices()

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure),
		rdb, jwt,
	))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(svc.Catalog, logger), rdb, jwt))
	r.Add(modules.NewRegistrationModule(
		handlers.NewRegistrationHandler(svc.Registrations, svc.MyEvents, cfg.AppName, cfg.PortalURL, logger),
		handlers.NewPassHandler(svc.Passes, logger),
		rdb, jwt,
	))
	r.Add(modules.NewStaffModule(handlers.NewStaffHandler(svc.Reports, svc.Verifier, logger), rdb, jwt))
	r.Add(modules.NewPublicModule(rdb, checks))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
