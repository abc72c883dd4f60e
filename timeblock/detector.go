package timeblock

import "context"

// Detector finds stored blocks whose time range intersects a candidate range
// for the same student and day. Blocks for other students or other days are
// never considered.
type Detector struct {
	store Store
}

func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// FindConflicts returns every block of studentID on day whose range overlaps
// the candidate [startTime, endTime). A non-nil excludeID removes that block
// from consideration so a record never conflicts with itself during update.
func (d *Detector) FindConflicts(ctx context.Context, studentID int, day, startTime, endTime string, excludeID *int) ([]TimeBlock, error) {
	return d.store.FindOverlapping(ctx, studentID, day, startTime, endTime, excludeID)
}
