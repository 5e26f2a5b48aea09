package parcel

import (
	"encoding/json"
	"fmt"

	"parcelflow/internal/entities"
)

func ToDomain(p *ParcelDB) (*entities.Parcel, error) {
	if p == nil {
		return nil, nil
	}

	var payload entities.ParcelPayload
	if len(p.Payload) > 0 {
		if err := json.Unmarshal(p.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode parcel %s payload: %w", p.ID, err)
		}
	}

	return &entities.Parcel{
		ID:                   p.ID,
		TrackingCode:         p.TrackingCode,
		OriginStationID:      p.OriginStationID,
		DestinationStationID: p.DestinationStationID,
		Status:               entities.ParcelStatus(p.Status),
		PaymentStatus:        entities.PaymentStatus(p.PaymentStatus),
		BatchID:              p.BatchID,
		Payload:              payload,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}, nil
}

func FromDomain(p entities.Parcel) (ParcelDB, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return ParcelDB{}, fmt.Errorf("encode parcel %s payload: %w", p.ID, err)
	}

	return ParcelDB{
		ID:                   p.ID,
		TrackingCode:         p.TrackingCode,
		OriginStationID:      p.OriginStationID,
		DestinationStationID: p.DestinationStationID,
		Status:               p.Status.String(),
		PaymentStatus:        p.PaymentStatus.String(),
		BatchID:              p.BatchID,
		Payload:              payload,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}, nil
}

func ToDomainList(parcelsDB []ParcelDB) ([]entities.Parcel, error) {
	result := make([]entities.Parcel, 0, len(parcelsDB))
	for i := range parcelsDB {
		parcel, err := ToDomain(&parcelsDB[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *parcel)
	}
	return result, nil
}

func StatusChangeToDomain(c StatusChangeDB) entities.ParcelStatusChange {
	return entities.ParcelStatusChange{
		ID:        c.ID,
		ParcelID:  c.ParcelID,
		From:      entities.ParcelStatus(c.FromStatus),
		To:        entities.ParcelStatus(c.ToStatus),
		ActorID:   c.ActorID,
		ActorRole: entities.ActorRole(c.ActorRole),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func StatusChangeFromDomain(c entities.ParcelStatusChange) StatusChangeDB {
	return StatusChangeDB{
		ID:         c.ID,
		ParcelID:   c.ParcelID,
		FromStatus: c.From.String(),
		ToStatus:   c.To.String(),
		ActorID:    c.ActorID,
		ActorRole:  c.ActorRole.String(),
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}
