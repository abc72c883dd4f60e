package timeblock

import "context"

// Store is the persistence contract the service depends on. The Postgres
// Accessor implements it; tests substitute a mock.
type Store interface {
	FindByStudent(ctx context.Context, studentID int) ([]TimeBlock, error)
	FindByStudentAndDay(ctx context.Context, studentID int, day string) ([]TimeBlock, error)
	FindByStudentAndType(ctx context.Context, studentID int, blockType string) ([]TimeBlock, error)
	FindByID(ctx context.Context, id int) (*TimeBlock, error)
	FindOverlapping(ctx context.Context, studentID int, day, startTime, endTime string, excludeID *int) ([]TimeBlock, error)
	Insert(ctx context.Context, tb TimeBlock) (*TimeBlock, error)
	Update(ctx context.Context, tb TimeBlock) (*TimeBlock, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	DeleteAllByStudent(ctx context.Context, studentID int) error

	// WithBlockLock runs fn against a transaction-scoped Store while a lock
	// keyed on (studentID, day) is held, serializing concurrent writers for
	// the same student and day so a conflict check and the write it guards
	// cannot interleave with another writer's.
	WithBlockLock(ctx context.Context, studentID int, day string, fn func(Store) error) error
}
