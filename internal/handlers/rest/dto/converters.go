package dto

import (
	"fmt"
	"strings"
	"time"

	"parcelflow/internal/entities"
)

func (c ParcelCreate) ToEntity() entities.ParcelCreate {
	return entities.ParcelCreate{
		OriginStationID:      c.OriginStationID,
		DestinationStationID: c.DestinationStationID,
		PaymentStatus:        entities.PaymentStatus(c.PaymentStatus),
		Payload: entities.ParcelPayload{
			SenderName:     c.SenderName,
			SenderPhone:    c.SenderPhone,
			RecipientName:  c.RecipientName,
			RecipientPhone: c.RecipientPhone,
			Description:    c.Description,
			DeclaredValue:  c.DeclaredValue,
			WeightGrams:    c.WeightGrams,
			DeliveryType:   entities.DeliveryType(c.DeliveryType),
		},
	}
}

func ParcelFromEntity(p entities.Parcel) Parcel {
	return Parcel{
		ID:                   p.ID,
		TrackingCode:         p.TrackingCode,
		OriginStationID:      p.OriginStationID,
		DestinationStationID: p.DestinationStationID,
		Status:               p.Status.String(),
		PaymentStatus:        p.PaymentStatus.String(),
		BatchID:              p.BatchID,
		SenderName:           p.Payload.SenderName,
		SenderPhone:          p.Payload.SenderPhone,
		RecipientName:        p.Payload.RecipientName,
		RecipientPhone:       p.Payload.RecipientPhone,
		Description:          p.Payload.Description,
		DeclaredValue:        p.Payload.DeclaredValue,
		WeightGrams:          p.Payload.WeightGrams,
		DeliveryType:         p.Payload.DeliveryType.String(),
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func HistoryFromEntities(changes []entities.ParcelStatusChange) []StatusChange {
	out := make([]StatusChange, len(changes))
	for i, c := range changes {
		out[i] = StatusChange{
			From:      c.From.String(),
			To:        c.To.String(),
			ActorID:   c.ActorID,
			ActorRole: c.ActorRole.String(),
			Notes:     c.Notes,
			CreatedAt: c.CreatedAt,
		}
	}
	return out
}

// ToEntity пустая дата рейса остаётся нулевой, её отклоняет сервис.
func (c BatchCreate) ToEntity() (entities.BatchCreate, error) {
	create := entities.BatchCreate{
		OriginStationID:      c.OriginStationID,
		DestinationStationID: c.DestinationStationID,
		ParcelIDs:            c.ParcelIDs,
	}
	if strings.TrimSpace(c.TripDate) == "" {
		return create, nil
	}

	tripDate, err := ParseTripDate(c.TripDate)
	if err != nil {
		return entities.BatchCreate{}, err
	}
	create.TripDate = tripDate

	return create, nil
}

func ParseTripDate(s string) (time.Time, error) {
	t, err := time.Parse(TripDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("trip date %q must look like %s", s, TripDateLayout)
	}
	return t, nil
}

func BatchFromEntity(b entities.Batch) Batch {
	parcelIDs := b.ParcelIDs
	if parcelIDs == nil {
		parcelIDs = []string{}
	}
	return Batch{
		ID:                   b.ID,
		Code:                 b.Code,
		OriginStationID:      b.OriginStationID,
		DestinationStationID: b.DestinationStationID,
		TripDate:             b.TripDate.Format(TripDateLayout),
		Status:               b.Status.String(),
		ParcelIDs:            parcelIDs,
		Version:              b.Version,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func BatchesFromEntities(batches []entities.Batch) []Batch {
	out := make([]Batch, len(batches))
	for i, b := range batches {
		out[i] = BatchFromEntity(b)
	}
	return out
}
