package station

import "parcelflow/internal/entities"

func ToDomain(s *StationDB) *entities.Station {
	if s == nil {
		return nil
	}
	return &entities.Station{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToDomainList(stationsDB []StationDB) []entities.Station {
	if len(stationsDB) == 0 {
		return []entities.Station{}
	}

	result := make([]entities.Station, len(stationsDB))
	for i := range stationsDB {
		result[i] = *ToDomain(&stationsDB[i])
	}
	return result
}
