package parcel

import (
	"context"
	"fmt"

	"parcelflow/internal/entities"
)

// BulkRequest переход группы посылок как одной единицы: либо все, либо ни одной.
type BulkRequest struct {
	IDs    []string
	Target entities.ParcelStatus
	Notes  string
	// SkipReached пропускает посылки, уже дошедшие до Target или дальше,
	// в том числе delivered и failed, вместо ошибки перехода.
	SkipReached bool
}

type BulkResult struct {
	// Parcels в порядке запроса, уже в новом состоянии.
	Parcels []entities.Parcel
	// Events только реально изменённые посылки.
	Events []entities.StatusChanged
}

// RequestTransition проверки идут по порядку: существование, идемпотентный повтор,
// оплата, допустимость перехода, полномочия. Повтор уже достигнутого статуса
// возвращает посылку без изменений.
func (l *Lifecycle) RequestTransition(
	ctx context.Context,
	actor entities.Actor,
	parcelID string,
	target entities.ParcelStatus,
	notes string,
) (*entities.Parcel, error) {
	if !isValidParcelID(parcelID) {
		return nil, fmt.Errorf("%w: %s", ErrParcelNotFound, parcelID)
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, target)
	}
	if !isValidNotes(notes) {
		return nil, ErrNotesTooLong
	}

	var result *BulkResult
	err := l.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = l.transition(ctx, actor, BulkRequest{
			IDs:    []string{parcelID},
			Target: target,
			Notes:  notes,
		})
		return err
	})
	if err != nil {
		err = mapTxError(err)
		observeTransition(target, 0, err)
		return nil, err
	}

	observeTransition(target, len(result.Events), nil)
	l.dispatch(ctx, result.Events)

	return &result.Parcels[0], nil
}

// TransitionMany для рейсов: вызывается внутри транзакции рейса и присоединяется к ней.
// Уведомления не отправляет, события возвращаются вызывающему для отправки после коммита.
func (l *Lifecycle) TransitionMany(ctx context.Context, actor entities.Actor, req BulkRequest) (*BulkResult, error) {
	if !req.Target.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Target)
	}
	if !isValidNotes(req.Notes) {
		return nil, ErrNotesTooLong
	}

	var result *BulkResult
	err := l.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = l.transition(ctx, actor, req)
		return err
	})
	if err != nil {
		err = mapTxError(err)
		observeTransition(req.Target, 0, err)
		return nil, err
	}

	observeTransition(req.Target, len(result.Events), nil)
	return result, nil
}

// LockParcels блокирует посылки до конца транзакции и возвращает их в порядке ids,
// повторы в ids схлопываются.
func (l *Lifecycle) LockParcels(ctx context.Context, ids []string) ([]entities.Parcel, error) {
	ids = unique(ids)
	for _, id := range ids {
		if !isValidParcelID(id) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParcelID, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := l.repository.GetByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock parcels: %w", err)
	}

	byID := make(map[string]entities.Parcel, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	parcels := make([]entities.Parcel, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrParcelNotFound, id)
		}
		parcels = append(parcels, p)
	}
	return parcels, nil
}

// transition сначала проверяет все посылки и только потом пишет,
// поэтому отказ по любой из них не оставляет частичных изменений даже вне транзакции.
func (l *Lifecycle) transition(ctx context.Context, actor entities.Actor, req BulkRequest) (*BulkResult, error) {
	parcels, err := l.LockParcels(ctx, req.IDs)
	if err != nil {
		return nil, err
	}

	payments, err := l.ledger.GetStatuses(ctx, parcelIDs(parcels))
	if err != nil {
		return nil, fmt.Errorf("get payment statuses: %w", err)
	}

	apply := make([]bool, len(parcels))
	for i, p := range parcels {
		apply[i], err = l.check(actor, p, payments[p.ID], req)
		if err != nil {
			return nil, err
		}
	}

	now := l.now().UTC()
	result := &BulkResult{Parcels: make([]entities.Parcel, 0, len(parcels))}
	for i, p := range parcels {
		if !apply[i] {
			result.Parcels = append(result.Parcels, p)
			continue
		}

		updated, err := l.repository.UpdateStatus(ctx, p.ID, req.Target, p.Version)
		if err != nil {
			return nil, fmt.Errorf("update parcel %s status: %w", p.TrackingCode, err)
		}

		err = l.repository.AppendHistory(ctx, entities.ParcelStatusChange{
			ParcelID:  p.ID,
			From:      p.Status,
			To:        req.Target,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Notes:     req.Notes,
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("append parcel %s history: %w", p.TrackingCode, err)
		}

		result.Parcels = append(result.Parcels, *updated)
		result.Events = append(result.Events, entities.StatusChanged{
			Kind:       entities.EventKindParcel,
			ID:         p.ID,
			Reference:  p.TrackingCode,
			From:       p.Status.String(),
			To:         req.Target.String(),
			ActorID:    actor.ID,
			Notes:      req.Notes,
			OccurredAt: now,
		})
	}

	return result, nil
}

// check возвращает false без ошибки для посылок, которые менять не нужно.
func (l *Lifecycle) check(actor entities.Actor, p entities.Parcel, payment entities.PaymentStatus, req BulkRequest) (bool, error) {
	if p.Status == req.Target {
		if actor.Role != entities.RoleAdmin && actor.Role != entities.RoleSuperAdmin {
			return false, fmt.Errorf("%w: %s cannot change parcel status", ErrUnauthorized, actor.Role)
		}
		return false, nil
	}

	if req.SkipReached && p.Status.HasReached(req.Target) {
		return false, nil
	}

	if req.Target.RequiresPayment() && payment != entities.PaymentPaid {
		return false, fmt.Errorf("%w: parcel %s payment is %s", ErrPaymentRequired, p.TrackingCode, payment)
	}

	if !p.Status.CanTransitionTo(req.Target) {
		return false, fmt.Errorf("%w: parcel %s is %s, cannot move to %s",
			ErrInvalidTransition, p.TrackingCode, p.Status, req.Target)
	}

	if d := l.authorizer.AuthorizeParcel(actor, p, req.Target); !d.Allowed {
		return false, unauthorized(d)
	}

	return true, nil
}

func parcelIDs(parcels []entities.Parcel) []string {
	out := make([]string, 0, len(parcels))
	for _, p := range parcels {
		out = append(out, p.ID)
	}
	return out
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
