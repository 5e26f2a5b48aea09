// Package policy решает, может ли actor выполнить переход статуса посылки или рейса.
// Функции чистые: никакого I/O, только actor, текущее состояние и целевой статус.
package policy

import "parcelflow/internal/entities"

const ReasonNotAuthorized = "not authorized for this station/role"

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny() Decision {
	return Decision{Allowed: false, Reason: ReasonNotAuthorized}
}

type Policy struct{}

func New() *Policy {
	return &Policy{}
}

// AuthorizeParcel правила по порядку:
//  1. superadmin может всё, включая failed;
//  2. failed доступен любому admin, если посылка ещё не в терминальном статусе;
//  3. продвижение статуса только admin релевантной станции
//     (in_transit - станция отправления, arrived и delivered - станция назначения);
//  4. user статусы не меняет.
func (p *Policy) AuthorizeParcel(actor entities.Actor, parcel entities.Parcel, target entities.ParcelStatus) Decision {
	switch actor.Role {
	case entities.RoleSuperAdmin:
		return allow()
	case entities.RoleAdmin:
	default:
		return deny()
	}

	if target == entities.ParcelFailed {
		if parcel.Status.IsTerminal() {
			return deny()
		}
		return allow()
	}

	endpoint, ok := parcelEndpoint(parcel, target)
	if !ok || !actor.IsAdminAt(endpoint) {
		return deny()
	}
	return allow()
}

// AuthorizeBatch отправку подтверждает станция отправления, прибытие станция
// назначения, отмену любая из двух.
func (p *Policy) AuthorizeBatch(actor entities.Actor, batch entities.Batch, target entities.BatchStatus) Decision {
	switch actor.Role {
	case entities.RoleSuperAdmin:
		return allow()
	case entities.RoleAdmin:
	default:
		return deny()
	}

	switch target {
	case entities.BatchInTransit:
		if actor.IsAdminAt(batch.OriginStationID) {
			return allow()
		}
	case entities.BatchArrived:
		if actor.IsAdminAt(batch.DestinationStationID) {
			return allow()
		}
	case entities.BatchCancelled:
		if actor.IsAdminAt(batch.OriginStationID) || actor.IsAdminAt(batch.DestinationStationID) {
			return allow()
		}
	}
	return deny()
}

// AuthorizeIntake приём посылки: клиент оформляет сам, admin только на своей станции отправления.
func (p *Policy) AuthorizeIntake(actor entities.Actor, originStationID int64) Decision {
	switch actor.Role {
	case entities.RoleSuperAdmin, entities.RoleUser:
		return allow()
	case entities.RoleAdmin:
		if actor.IsAdminAt(originStationID) {
			return allow()
		}
	}
	return deny()
}

// AuthorizeBatchAssembly формирование состава рейса на станции отправления.
func (p *Policy) AuthorizeBatchAssembly(actor entities.Actor, originStationID int64) Decision {
	if actor.Role == entities.RoleSuperAdmin || actor.IsAdminAt(originStationID) {
		return allow()
	}
	return deny()
}

func parcelEndpoint(parcel entities.Parcel, target entities.ParcelStatus) (int64, bool) {
	switch target {
	case entities.ParcelInTransit:
		return parcel.OriginStationID, true
	case entities.ParcelArrived, entities.ParcelDelivered:
		return parcel.DestinationStationID, true
	}
	return 0, false
}
