package payment

import "parcelflow/internal/entities"

func ToDomain(p *PaymentDB) *entities.Payment {
	if p == nil {
		return nil
	}
	return &entities.Payment{
		ParcelID:    p.ParcelID,
		Status:      entities.PaymentStatus(p.Status),
		ExternalRef: p.ExternalRef,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDomain(p entities.Payment) PaymentDB {
	return PaymentDB{
		ParcelID:    p.ParcelID,
		Status:      p.Status.String(),
		ExternalRef: p.ExternalRef,
		UpdatedAt:   p.UpdatedAt,
	}
}
