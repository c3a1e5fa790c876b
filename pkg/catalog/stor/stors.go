package stor

import "gorm.io/gorm"

// Stors consolidates the cache stores so callers have a single thing to
// construct and pass around.
type Stors struct {
	ObservationStor ObservationStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		ObservationStor: NewGormObservationStor(db),
	}
}
