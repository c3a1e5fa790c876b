package stor

import (
	"errors"

	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
)

var ErrNotFound = errors.New("not found")

type GormObservationStor struct {
	db *gorm.DB
}

func NewGormObservationStor(db *gorm.DB) *GormObservationStor {
	return &GormObservationStor{db: db}
}

// SaveObservations upserts the given rows into the cache, keyed by
// sequence id. Rows already present are refreshed in place so a re-fetch
// of the observations table never duplicates entries.
func (s *GormObservationStor) SaveObservations(obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	for i := range obs {
		if obs[i].UUID != "" {
			continue
		}

		id, err := uuid.GenerateUUID()
		if err != nil {
			return err
		}
		obs[i].UUID = id
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sequence_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"unit_id", "camera_id", "field_name", "field_slug", "time",
				"num_images", "total_exptime", "exptime",
				"ramount", "dec_mount", "status", "updated_at",
			}),
		}).Create(&obs).Error
	})
}

func (s *GormObservationStor) GetObservationBySequenceID(sequenceID string) (*model.Observation, error) {
	var o model.Observation

	err := s.db.Where("sequence_id = ?", sequenceID).First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	default:
		return &o, nil
	}
}

func (s *GormObservationStor) ListObservationsByUnitID(unitID string) ([]model.Observation, error) {
	var obs []model.Observation
	if err := s.db.Where("unit_id = ?", unitID).Order("time").Find(&obs).Error; err != nil {
		return nil, err
	}

	return obs, nil
}

func (s *GormObservationStor) AllObservations() ([]model.Observation, error) {
	var obs []model.Observation
	if err := s.db.Order("time").Find(&obs).Error; err != nil {
		return nil, err
	}

	return obs, nil
}

func (s *GormObservationStor) CountObservations() (int64, error) {
	var count int64
	if err := s.db.Model(&model.Observation{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
