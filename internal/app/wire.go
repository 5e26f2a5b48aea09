//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcelflow/internal/gateway/kafka/notification"
	"parcelflow/internal/handlers/tasks/station_refresh"
	"parcelflow/internal/pkg/config"
	"parcelflow/internal/pkg/factory/code"
	"parcelflow/internal/pkg/factory/payment_handle"
	batchRepo "parcelflow/internal/repository/batch"
	parcelRepo "parcelflow/internal/repository/parcel"
	paymentRepo "parcelflow/internal/repository/payment"
	stationRepo "parcelflow/internal/repository/station"
	batchService "parcelflow/internal/service/batch"
	parcelService "parcelflow/internal/service/parcel"
	paymentService "parcelflow/internal/service/payment"
	"parcelflow/internal/service/policy"
	stationService "parcelflow/internal/service/station"
	"parcelflow/pkg/logger"
	"parcelflow/pkg/tx"
)

var paymentSet = wire.NewSet(
	providePaymentRepository,
	providePaymentStatusFactory,
	providePaymentLedger,

	wire.Bind(new(paymentService.Repository), new(*paymentRepo.Repository)),
	wire.Bind(new(payment_handle.LedgerWriter), new(*paymentRepo.Repository)),
	wire.Bind(new(paymentService.HandlerFactory), new(*payment_handle.StatusHandlerFactory)),
	wire.Bind(new(paymentService.TxManager), new(*tx.Manager)),
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.AsyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideStationRefreshInterval,
		provideCodeMaxAttempts,

		provideStationRepository,
		provideParcelRepository,
		provideBatchRepository,
		paymentSet,

		provideStationDirectory,
		providePolicy,
		provideTrackingCodes,
		provideBatchCodes,
		provideParcelRetrier,
		provideBatchRetrier,
		provideNotificationGateway,

		provideParcelLifecycle,
		provideBatchConsolidation,

		provideStationRefreshTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceParcel), new(*parcelService.Lifecycle)),
		wire.Bind(new(ServiceBatch), new(*batchService.Consolidation)),

		wire.Bind(new(stationService.Repository), new(*stationRepo.Repository)),
		wire.Bind(new(parcelService.Repository), new(*parcelRepo.Repository)),
		wire.Bind(new(batchService.Repository), new(*batchRepo.Repository)),

		wire.Bind(new(parcelService.PaymentLedger), new(*paymentService.Ledger)),
		wire.Bind(new(parcelService.StationDirectory), new(*stationService.Directory)),
		wire.Bind(new(parcelService.Authorizer), new(*policy.Policy)),
		wire.Bind(new(parcelService.TrackingCodeAllocator), new(*code.TrackingCodes)),
		wire.Bind(new(parcelService.Notifier), new(*notification.NotificationGateway)),
		wire.Bind(new(parcelService.TxManager), new(*tx.Manager)),

		wire.Bind(new(batchService.ParcelLifecycle), new(*parcelService.Lifecycle)),
		wire.Bind(new(batchService.StationDirectory), new(*stationService.Directory)),
		wire.Bind(new(batchService.Authorizer), new(*policy.Policy)),
		wire.Bind(new(batchService.CodeAllocator), new(*code.BatchCodes)),
		wire.Bind(new(batchService.Notifier), new(*notification.NotificationGateway)),
		wire.Bind(new(batchService.TxManager), new(*tx.Manager)),

		wire.Bind(new(station_refresh.Directory), new(*stationService.Directory)),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-payment-status-changed)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		paymentSet,

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
