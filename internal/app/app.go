package app

import (
	"parcelflow/internal/gateway/kafka/notification"
	"parcelflow/internal/handlers/rest/batch_get"
	"parcelflow/internal/handlers/rest/batch_parcels_delete"
	"parcelflow/internal/handlers/rest/batch_parcels_post"
	"parcelflow/internal/handlers/rest/batch_post"
	"parcelflow/internal/handlers/rest/batch_status_post"
	"parcelflow/internal/handlers/rest/batches_get"
	"parcelflow/internal/handlers/rest/parcel_get"
	"parcelflow/internal/handlers/rest/parcel_history_get"
	"parcelflow/internal/handlers/rest/parcel_post"
	"parcelflow/internal/handlers/rest/parcel_status_post"
	paymentService "parcelflow/internal/service/payment"
	"parcelflow/pkg/background"
)

type Application struct {
	ServiceParcel     ServiceParcel
	ServiceBatch      ServiceBatch
	Notifications     *notification.NotificationGateway
	BackgroundWorkers *background.Worker
}

type ServiceParcel interface {
	parcel_post.Service
	parcel_get.Service
	parcel_history_get.Service
	parcel_status_post.Service
}

type ServiceBatch interface {
	batch_post.Service
	batches_get.Service
	batch_get.Service
	batch_status_post.Service
	batch_parcels_post.Service
	batch_parcels_delete.Service
}

type KafkaWorkerApp struct {
	PaymentLedger *paymentService.Ledger
}
