package batch

import "parcelflow/internal/entities"

func ToDomain(b *BatchDB, parcelIDs []string) *entities.Batch {
	if b == nil {
		return nil
	}
	if parcelIDs == nil {
		parcelIDs = []string{}
	}
	return &entities.Batch{
		ID:                   b.ID,
		Code:                 b.Code,
		OriginStationID:      b.OriginStationID,
		DestinationStationID: b.DestinationStationID,
		TripDate:             b.TripDate,
		Status:               entities.BatchStatus(b.Status),
		ParcelIDs:            parcelIDs,
		Version:              b.Version,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func FromDomain(b entities.Batch) BatchDB {
	return BatchDB{
		ID:                   b.ID,
		Code:                 b.Code,
		OriginStationID:      b.OriginStationID,
		DestinationStationID: b.DestinationStationID,
		TripDate:             b.TripDate,
		Status:               b.Status.String(),
		Version:              b.Version,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func StatusChangeFromDomain(c entities.BatchStatusChange) StatusChangeDB {
	return StatusChangeDB{
		ID:         c.ID,
		BatchID:    c.BatchID,
		FromStatus: c.From.String(),
		ToStatus:   c.To.String(),
		ActorID:    c.ActorID,
		ActorRole:  c.ActorRole.String(),
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}
