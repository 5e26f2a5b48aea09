package batch

import (
	"context"
	"fmt"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/parcel"
)

// AdvanceBatch переводит рейс и вместе с ним всех участников в одной транзакции.
// Отправка и прибытие проходят через жизненный цикл посылок со всеми его проверками:
// если хотя бы одна посылка не может перейти, не меняется ни рейс, ни одна посылка.
// Отмена только освобождает посылки, их статусы остаются прежними.
func (c *Consolidation) AdvanceBatch(
	ctx context.Context,
	actor entities.Actor,
	code string,
	target entities.BatchStatus,
	notes string,
) (*entities.Batch, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrInvalidBatchCode
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, target)
	}
	if !isValidNotes(notes) {
		return nil, ErrNotesTooLong
	}

	var (
		result *entities.Batch
		events []entities.StatusChanged
	)
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		batch, err := c.repository.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return fmt.Errorf("get batch %s: %w", code, err)
		}

		if batch.Status == target {
			if actor.Role != entities.RoleAdmin && actor.Role != entities.RoleSuperAdmin {
				return fmt.Errorf("%w: %s cannot change batch status", ErrUnauthorized, actor.Role)
			}
			result, events = batch, nil
			return nil
		}

		if !batch.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: batch %s is %s, cannot move to %s",
				ErrInvalidTransition, batch.Code, batch.Status, target)
		}
		if d := c.authorizer.AuthorizeBatch(actor, *batch, target); !d.Allowed {
			return unauthorized(d)
		}

		memberEvents, err := c.fanOut(ctx, actor, *batch, target, notes)
		if err != nil {
			return err
		}

		updated, err := c.repository.UpdateStatus(ctx, batch.ID, target, batch.Version)
		if err != nil {
			return fmt.Errorf("update batch %s status: %w", batch.Code, err)
		}
		if target == entities.BatchCancelled {
			updated.ParcelIDs = nil
		} else {
			updated.ParcelIDs = batch.ParcelIDs
		}

		now := c.now().UTC()
		err = c.repository.AppendHistory(ctx, entities.BatchStatusChange{
			BatchID:   batch.ID,
			From:      batch.Status,
			To:        target,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Notes:     notes,
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("append batch %s history: %w", batch.Code, err)
		}

		result = updated
		events = append(memberEvents, entities.StatusChanged{
			Kind:       entities.EventKindBatch,
			ID:         batch.ID,
			Reference:  batch.Code,
			From:       batch.Status.String(),
			To:         target.String(),
			ActorID:    actor.ID,
			Notes:      notes,
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		err = mapTxError(err)
		observeAdvance(target, 0, err)
		return nil, err
	}

	members := 0
	if len(events) > 0 {
		members = len(events) - 1
	}
	observeAdvance(target, members, nil)
	c.dispatch(ctx, events)

	return result, nil
}

// fanOut применяет переход рейса к участникам внутри уже открытой транзакции.
func (c *Consolidation) fanOut(
	ctx context.Context,
	actor entities.Actor,
	batch entities.Batch,
	target entities.BatchStatus,
	notes string,
) ([]entities.StatusChanged, error) {
	var parcelTarget entities.ParcelStatus
	switch target {
	case entities.BatchInTransit:
		parcelTarget = entities.ParcelInTransit
	case entities.BatchArrived:
		parcelTarget = entities.ParcelArrived
	case entities.BatchCancelled:
		if _, err := c.repository.ReleaseAll(ctx, batch.ID); err != nil {
			return nil, fmt.Errorf("release batch %s parcels: %w", batch.Code, err)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, target)
	}

	if len(batch.ParcelIDs) == 0 {
		return nil, nil
	}

	result, err := c.parcels.TransitionMany(ctx, actor, parcel.BulkRequest{
		IDs:         batch.ParcelIDs,
		Target:      parcelTarget,
		Notes:       notes,
		SkipReached: true,
	})
	if err != nil {
		return nil, fmt.Errorf("batch %s members: %w", batch.Code, err)
	}
	return result.Events, nil
}
