package timeblock

import (
	"context"
	"fmt"
	"log"
)

// Service orchestrates time-block operations. Every mutating write runs its
// conflict check and the write itself under a per-(student, day) lock so two
// concurrent writers cannot both pass the check against a stale snapshot.
type Service struct {
	store    Store
	detector *Detector
}

func NewService(store Store) *Service {
	return &Service{store: store, detector: NewDetector(store)}
}

func (s *Service) ListByStudent(ctx context.Context, studentID int) ([]TimeBlock, error) {
	return s.store.FindByStudent(ctx, studentID)
}

func (s *Service) ListByStudentAndDay(ctx context.Context, studentID int, day string) ([]TimeBlock, error) {
	return s.store.FindByStudentAndDay(ctx, studentID, day)
}

func (s *Service) ListByStudentAndType(ctx context.Context, studentID int, blockType string) ([]TimeBlock, error) {
	return s.store.FindByStudentAndType(ctx, studentID, blockType)
}

func (s *Service) GetByID(ctx context.Context, id int) (*TimeBlock, error) {
	return s.store.FindByID(ctx, id)
}

// CheckConflicts reports the blocks that would conflict with the given range,
// without writing anything.
func (s *Service) CheckConflicts(ctx context.Context, studentID int, day, startTime, endTime string, excludeID *int) ([]TimeBlock, error) {
	return s.detector.FindConflicts(ctx, studentID, day, startTime, endTime, excludeID)
}

// Create stores a new time block after verifying it overlaps nothing the
// student already has on that day. A zero weeks value defaults to
// DefaultWeeks. Returns *ConflictError when overlapping blocks exist.
func (s *Service) Create(ctx context.Context, tb TimeBlock) (*TimeBlock, error) {
	if tb.Weeks == 0 {
		tb.Weeks = DefaultWeeks
	}

	var created *TimeBlock
	err := s.store.WithBlockLock(ctx, tb.StudentID, tb.Day, func(st Store) error {
		conflicts, err := NewDetector(st).FindConflicts(ctx, tb.StudentID, tb.Day, tb.StartTime, tb.EndTime, nil)
		if err != nil {
			return fmt.Errorf("find conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		created, err = st.Insert(ctx, tb)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("created time block %d for student %d", created.ID, created.StudentID)
	return created, nil
}

// Update replaces all fields of the block with the candidate's, after a
// conflict check that excludes the block itself. Returns (nil, nil) when the
// id does not exist and *ConflictError on overlap.
func (s *Service) Update(ctx context.Context, id int, tb TimeBlock) (*TimeBlock, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}
	if existing == nil {
		log.Printf("time block %d not found for update", id)
		return nil, nil
	}

	if tb.Weeks == 0 {
		tb.Weeks = DefaultWeeks
	}

	var updated *TimeBlock
	err = s.store.WithBlockLock(ctx, tb.StudentID, tb.Day, func(st Store) error {
		conflicts, err := NewDetector(st).FindConflicts(ctx, tb.StudentID, tb.Day, tb.StartTime, tb.EndTime, &id)
		if err != nil {
			return fmt.Errorf("find conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		// Full field replace onto the stored record; id and createdAt survive.
		next := *existing
		next.Title = tb.Title
		next.Day = tb.Day
		next.StartTime = tb.StartTime
		next.EndTime = tb.EndTime
		next.Type = tb.Type
		next.Description = tb.Description
		next.Color = tb.Color
		next.StudentID = tb.StudentID
		next.Weeks = tb.Weeks

		updated, err = st.Update(ctx, next)
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("updated time block %d", updated.ID)
	return updated, nil
}

// Delete removes a block and reports whether it existed. Removal cannot
// introduce overlaps, so no conflict check runs.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("exists by id: %w", err)
	}
	if !exists {
		log.Printf("time block %d not found for deletion", id)
		return false, nil
	}

	return s.store.DeleteByID(ctx, id)
}

// DeleteAllForStudent removes every block owned by the student, used for
// account cleanup.
func (s *Service) DeleteAllForStudent(ctx context.Context, studentID int) error {
	log.Printf("deleting all time blocks for student %d", studentID)
	return s.store.DeleteAllByStudent(ctx, studentID)
}
