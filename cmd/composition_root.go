package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "pickup/internal/adapters/in/http"
	"pickup/internal/adapters/out/kafka"
	"pickup/internal/adapters/out/notify"
	"pickup/internal/adapters/out/postgres"
	"pickup/internal/adapters/out/postgres/catalogrepo"
	"pickup/internal/adapters/out/tokensigner"
	"pickup/internal/core/application/pickuptoken"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/jobs"
	"pickup/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	clock      clock.Clock
	tokens     *pickuptoken.Service
	kafka      *kafka.Notifier
	notifier   *notify.Async
	uowFactory *postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	clk := clock.NewSystem()

	signer, err := tokensigner.NewHMACSigner([]byte(config.PickupTokenSecret), config.PickupTokenIssuer, clk)
	if err != nil {
		return nil, fmt.Errorf("pickup token signer: %w", err)
	}
	tokens, err := pickuptoken.NewService(signer, clk, config.PickupTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("pickup token service: %w", err)
	}

	root := &CompositionRoot{
		config: config,
		gormDB: gormDB,
		logger: logger,
		clock:  clk,
		tokens: tokens,
	}

	sinks := notify.Fanout{notify.NewLog(logger, slog.LevelInfo)}
	if config.KafkaEnabled() {
		root.kafka, err = kafka.NewNotifier(config.KafkaBrokers, config.KafkaClientID, config.KafkaTopicPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka notifier: %w", err)
		}
		sinks = append(sinks, root.kafka)
	}
	root.notifier = notify.NewAsync(sinks, config.NotifyTimeout, logger)
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, root.notifier, logger)

	return root, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, catalogrepo.NewGormProductCatalog(c.gormDB), c.clock)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.PickupUoWFactory = FuncPickupUoWFactory(func() commands.PickupUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.tokens, c.clock)
}

func (c *CompositionRoot) CreateRedeemPickupCommandHandler() commands.RedeemPickupCommandHandler {
	var f commands.PickupUoWFactory = FuncPickupUoWFactory(func() commands.PickupUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRedeemPickupCommandHandler(f, c.tokens, c.clock)
}

func (c *CompositionRoot) CreateRemindPendingPickupsCommandHandler() commands.RemindPendingPickupsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRemindPendingPickupsCommandHandler(f, c.notifier, c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPickupTokenQueryHandler() queries.GetPickupTokenQueryHandler {
	return queries.NewGetPickupTokenQueryHandler(c.gormDB, c.tokens)
}

func (c *CompositionRoot) CreateGetBranchReadyOrdersQueryHandler() queries.GetBranchReadyOrdersQueryHandler {
	return queries.NewGetBranchReadyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateRedeemPickupCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetPickupTokenQueryHandler(),
		c.CreateGetBranchReadyOrdersQueryHandler(),
		c.logger,
	)
}

// CreateRouter builds the HTTP entry point. /health pings the database.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	auth, err := httpin.NewAuthenticator([]byte(c.config.AuthSecret), c.config.AuthIssuer)
	if err != nil {
		return nil, err
	}

	return httpin.NewRouter(httpin.RouterConfig{
		Server:        c.CreateServer(),
		Authenticator: auth,
		Health:        c.pingDatabase,
		Logger:        c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRemindPendingPickupsCommandHandler(),
		jobs.PickupReminderConfig{
			Schedule:   c.config.PickupReminderSchedule,
			WaitingFor: c.config.PickupReminderAfter,
			Limit:      c.config.PickupReminderLimit,
		},
		c.logger,
	)
}

func (c *CompositionRoot) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close drains pending notifications and then releases the Kafka producer.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errs []error
	if err := c.notifier.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain notifications: %w", err))
	}
	if c.kafka != nil {
		if err := c.kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
		}
	}
	return errors.Join(errs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPickupUoWFactory func() commands.PickupUoW

func (f FuncPickupUoWFactory) Create() commands.PickupUoW {
	return f()
}
