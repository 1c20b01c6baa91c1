package cmd

import (
	"context"
	"log/slog"

	httpin "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/messaging"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/catalogrepo"
	redisout "ordering/internal/adapters/out/redis"
	"ordering/internal/core/application/notifications"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/ports"
	"ordering/internal/jobs"
	"ordering/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	redis      *goredis.Client
	kafka      *kafka.Writer
	registry   *prometheus.Registry
	metrics    *metrics.EngineMetrics
	dispatcher *notifications.Dispatcher
	notifier   *notifications.AsyncNotifier
	logger     *slog.Logger
}

// NewCompositionRoot wires the shared infrastructure. Redis and Kafka are
// optional: without them order numbers use a random suffix, there are no
// server-side carts to clear, and messages are written to the log.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	c := CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   metrics.NewRegistry(),
		logger:     logger,
	}
	c.metrics = metrics.NewEngineMetrics(c.registry)

	if configs.RedisAddr != "" {
		c.redis = goredis.NewClient(&goredis.Options{Addr: configs.RedisAddr})
	}

	var sender ports.MessageSender = messaging.NewLogSender(logger)
	if len(messaging.ParseBrokers(configs.KafkaBrokers)) > 0 {
		c.kafka = messaging.NewKafkaWriter(configs.KafkaBrokers, configs.KafkaNotificationTopic)
		sender = messaging.NewKafkaSender(c.kafka)
	}

	c.dispatcher = notifications.NewDispatcher(
		sender,
		c.uowFactory.Create().OutboxRepository(),
		c.metrics,
		logger,
		notifications.Config{
			AdminEmail:  configs.AdminEmail,
			SendTimeout: configs.NotificationTimeout,
			BankAccount: notifications.BankAccount{
				BankName:      configs.BankName,
				AccountNumber: configs.BankAccountNumber,
				AccountHolder: configs.BankAccountHolder,
			},
		},
	)

	c.notifier = notifications.NewAsyncNotifier(c.dispatcher)

	return c
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.lifecycleUoWFactory(),
		catalogrepo.NewGormCatalogGateway(c.gormDB),
		redisout.NewOrderNumberGenerator(c.redis, c.logger),
		redisout.NewCartStore(c.redis),
		c.notifier,
		c.metrics,
		c.logger,
		commands.CreateOrderSettings{
			TaxBasisPoints:    c.configs.TaxRateBasisPoints,
			AutoDeliveryDelay: c.configs.AutoDeliveryDelay(),
		},
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.notifier, c.metrics)
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() commands.UpdatePaymentStatusCommandHandler {
	return commands.NewUpdatePaymentStatusCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.notifier, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateForceOrderStatusCommandHandler() commands.ForceOrderStatusCommandHandler {
	return commands.NewForceOrderStatusCommandHandler(c.orderUoWFactory(), c.notifier, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateAutoDeliverOrderCommandHandler() commands.AutoDeliverOrderCommandHandler {
	return commands.NewAutoDeliverOrderCommandHandler(c.lifecycleUoWFactory(), c.notifier, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetOrderByNumberQueryHandler() queries.GetOrderByNumberQueryHandler {
	return queries.NewGetOrderByNumberQueryHandler(c.orderReader(), catalogrepo.NewGormCatalogGateway(c.gormDB), c.logger)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateListAdminOrdersQueryHandler() queries.ListAdminOrdersQueryHandler {
	return queries.NewListAdminOrdersQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateGetOrderStatsQueryHandler() queries.GetOrderStatsQueryHandler {
	return queries.NewGetOrderStatsQueryHandler(c.orderReader())
}

// CreateRouter builds the echo instance with every use case mounted.
func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:   c.CreateUpdateOrderStatusCommandHandler(),
		UpdatePaymentStatus: c.CreateUpdatePaymentStatusCommandHandler(),
		UpdateOrder:         c.CreateUpdateOrderCommandHandler(),
		ForceOrderStatus:    c.CreateForceOrderStatusCommandHandler(),
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		GetOrderByNumber:    c.CreateGetOrderByNumberQueryHandler(),
		GetCustomerOrders:   c.CreateGetCustomerOrdersQueryHandler(),
		ListAdminOrders:     c.CreateListAdminOrdersQueryHandler(),
		GetOrderStats:       c.CreateGetOrderStatsQueryHandler(),
	}, c.logger)

	return httpin.NewRouter(ctx, server, httpin.RouterConfig{
		Authenticator:  httpin.NewAuthenticator(c.configs.JWTSecret),
		RateLimiter:    httpin.NewRateLimiter(c.configs.RateLimitPerSecond, c.configs.RateLimitBurst),
		Observer:       c.metrics,
		MetricsHandler: metrics.Handler(c.registry),
		Logger:         c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	uow := c.uowFactory.Create()
	return jobs.NewJobManager(
		c.CreateAutoDeliverOrderCommandHandler(),
		uow.DeliveryScheduleRepository(),
		uow.OutboxRepository(),
		c.dispatcher,
		redisout.NewCartStore(c.redis),
		jobs.Schedules{
			AutoDelivery: c.configs.AutoDeliveryPollInterval,
			OutboxRelay:  c.configs.OutboxRelayInterval,
		},
		c.logger,
	)
}

// Close waits for in-flight notifications, then releases the optional Redis
// and Kafka connections.
func (c *CompositionRoot) Close() {
	c.notifier.Wait()
	if c.kafka != nil {
		if err := c.kafka.Close(); err != nil {
			c.logger.Warn("failed to close kafka writer", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn("failed to close redis client", "error", err)
		}
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}
