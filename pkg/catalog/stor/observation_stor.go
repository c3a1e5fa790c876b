package stor

import "github.com/panoptes-data/pandata/pkg/catalog/model"

type ObservationStor interface {
	SaveObservations(obs []model.Observation) error
	GetObservationBySequenceID(sequenceID string) (*model.Observation, error)
	ListObservationsByUnitID(unitID string) ([]model.Observation, error)
	AllObservations() ([]model.Observation, error)
	CountObservations() (int64, error)
}
