package app

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
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
	"parcelflow/pkg/background"
	"parcelflow/pkg/logger"
	"parcelflow/pkg/querier"
	"parcelflow/pkg/retrier"
	"parcelflow/pkg/retrier/backoff_adapter"
	"parcelflow/pkg/tx"
)

type (
	StationRefreshInterval time.Duration
	CodeMaxAttempts        int
)

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideStationRefreshInterval(cfg *config.Config) StationRefreshInterval {
	return StationRefreshInterval(cfg.Tasks.StationDirectoryRefreshInterval)
}

func provideCodeMaxAttempts(cfg *config.Config) CodeMaxAttempts {
	return CodeMaxAttempts(cfg.Codes.MaxAttempts)
}

func provideStationRepository(querier *querier.Querier) *stationRepo.Repository {
	return stationRepo.New(querier)
}

func provideParcelRepository(querier *querier.Querier) *parcelRepo.Repository {
	return parcelRepo.New(querier)
}

func provideBatchRepository(querier *querier.Querier) *batchRepo.Repository {
	return batchRepo.New(querier)
}

func providePaymentRepository(querier *querier.Querier) *paymentRepo.Repository {
	return paymentRepo.New(querier)
}

func provideStationDirectory(repository stationService.Repository) *stationService.Directory {
	return stationService.New(repository)
}

func providePaymentStatusFactory(ledger payment_handle.LedgerWriter) *payment_handle.StatusHandlerFactory {
	return payment_handle.NewStatusHandlerFactory(ledger)
}

func providePaymentLedger(
	repository paymentService.Repository,
	statusFactory paymentService.HandlerFactory,
	txManager paymentService.TxManager,
) *paymentService.Ledger {
	return paymentService.New(repository, statusFactory, txManager)
}

func provideTrackingCodes(repository *parcelRepo.Repository, attempts CodeMaxAttempts) *code.TrackingCodes {
	return code.NewTrackingCodes(repository, int(attempts))
}

func provideBatchCodes(repository *batchRepo.Repository, attempts CodeMaxAttempts) *code.BatchCodes {
	return code.NewBatchCodes(repository, int(attempts))
}

func provideNotificationGateway(log logger.Logger, producer sarama.AsyncProducer, cfg *config.Config) *notification.NotificationGateway {
	return notification.New(log, producer, cfg.Kafka.NotificationTopic, notification.DefaultEnqueueTimeout)
}

// newCodeRetrier повторяет вставку только при гонке за код,
// число попыток совпадает с числом кандидатов аллокатора.
func newCodeRetrier(attempts CodeMaxAttempts, shouldRetry retrier.ShouldRetryFunc) *backoff_adapter.Retrier {
	return backoff_adapter.New(retrier.Config{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
		Randomization:   0.5,
		Multiplier:      2,
		MaxAttempts:     uint64(attempts), //nolint:gosec // конфиг валидируется > 0
		ShouldRetry:     shouldRetry,
	})
}

func provideParcelRetrier(attempts CodeMaxAttempts) parcelService.Retrier {
	return newCodeRetrier(attempts, parcelService.IsRetryableCreateError)
}

func provideBatchRetrier(attempts CodeMaxAttempts) batchService.Retrier {
	return newCodeRetrier(attempts, batchService.IsRetryableCreateError)
}

func provideParcelLifecycle(
	repository parcelService.Repository,
	ledger parcelService.PaymentLedger,
	stations parcelService.StationDirectory,
	authorizer parcelService.Authorizer,
	codes parcelService.TrackingCodeAllocator,
	notifier parcelService.Notifier,
	retrier parcelService.Retrier,
	txManager parcelService.TxManager,
) *parcelService.Lifecycle {
	return parcelService.New(
		repository,
		ledger,
		stations,
		authorizer,
		codes,
		notifier,
		retrier,
		txManager,
	)
}

func provideBatchConsolidation(
	repository batchService.Repository,
	parcels batchService.ParcelLifecycle,
	stations batchService.StationDirectory,
	authorizer batchService.Authorizer,
	codes batchService.CodeAllocator,
	notifier batchService.Notifier,
	retrier batchService.Retrier,
	txManager batchService.TxManager,
) *batchService.Consolidation {
	return batchService.New(
		repository,
		parcels,
		stations,
		authorizer,
		codes,
		notifier,
		retrier,
		txManager,
	)
}

func providePolicy() *policy.Policy {
	return policy.New()
}

func provideStationRefreshTask(
	log logger.Logger,
	directory station_refresh.Directory,
	interval StationRefreshInterval,
) *station_refresh.StationRefresh {
	return station_refresh.NewStationRefresh(log, directory, time.Duration(interval))
}

func provideTaskList(
	stationRefreshTask *station_refresh.StationRefresh,
) []background.Task {
	return []background.Task{
		stationRefreshTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks...)
}
