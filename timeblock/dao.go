package timeblock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const timeBlockColumns = `time_block_id, title, day, start_time, end_time, type, COALESCE(description, ''), COALESCE(color, ''), student_id, weeks, created_at, updated_at`

func scanTimeBlocks(rows *sql.Rows) ([]TimeBlock, error) {
	var blocks []TimeBlock
	for rows.Next() {
		var tb TimeBlock
		if err := rows.Scan(&tb.ID, &tb.Title, &tb.Day, &tb.StartTime, &tb.EndTime, &tb.Type, &tb.Description, &tb.Color, &tb.StudentID, &tb.Weeks, &tb.CreatedAt, &tb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		blocks = append(blocks, tb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return blocks, nil
}

func (a *Accessor) FindByStudent(ctx context.Context, studentID int) ([]TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE student_id = $1 ORDER BY day, start_time`
	rows, err := a.q.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	return scanTimeBlocks(rows)
}

func (a *Accessor) FindByStudentAndDay(ctx context.Context, studentID int, day string) ([]TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE student_id = $1 AND day = $2 ORDER BY start_time`
	rows, err := a.q.QueryContext(ctx, query, studentID, day)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	return scanTimeBlocks(rows)
}

func (a *Accessor) FindByStudentAndType(ctx context.Context, studentID int, blockType string) ([]TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE student_id = $1 AND type = $2`
	rows, err := a.q.QueryContext(ctx, query, studentID, blockType)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	return scanTimeBlocks(rows)
}

func (a *Accessor) FindByID(ctx context.Context, id int) (*TimeBlock, error) {
	var tb TimeBlock

	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE time_block_id = $1`
	row := a.q.QueryRowContext(ctx, query, id)
	if err := row.Scan(&tb.ID, &tb.Title, &tb.Day, &tb.StartTime, &tb.EndTime, &tb.Type, &tb.Description, &tb.Color, &tb.StudentID, &tb.Weeks, &tb.CreatedAt, &tb.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	return &tb, nil
}

// FindOverlapping returns the blocks of studentID on day whose [start, end)
// range intersects [startTime, endTime). The three-way predicate catches
// partial overlaps from either side as well as full containment; ranges that
// only touch at a boundary do not match. A non-nil excludeID removes that
// block from consideration.
func (a *Accessor) FindOverlapping(ctx context.Context, studentID int, day, startTime, endTime string, excludeID *int) ([]TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks
		WHERE student_id = $1 AND day = $2
		AND ((start_time <= $3 AND end_time > $3)
			OR (start_time < $4 AND end_time >= $4)
			OR (start_time >= $3 AND end_time <= $4))
		AND ($5::int IS NULL OR time_block_id != $5)
		ORDER BY start_time`
	rows, err := a.q.QueryContext(ctx, query, studentID, day, startTime, endTime, excludeID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	return scanTimeBlocks(rows)
}

func (a *Accessor) Insert(ctx context.Context, tb TimeBlock) (*TimeBlock, error) {
	if err := tb.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	now := a.now()

	query := `INSERT INTO time_blocks (title, day, start_time, end_time, type, description, color, student_id, weeks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING time_block_id`
	row := a.q.QueryRowContext(ctx, query, tb.Title, tb.Day, tb.StartTime, tb.EndTime, tb.Type, tb.Description, tb.Color, tb.StudentID, tb.Weeks, now, now)
	if err := row.Scan(&tb.ID); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	tb.CreatedAt = now
	tb.UpdatedAt = now
	return &tb, nil
}

func (a *Accessor) Update(ctx context.Context, tb TimeBlock) (*TimeBlock, error) {
	if err := tb.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	now := a.now()

	query := `UPDATE time_blocks SET title = $1, day = $2, start_time = $3, end_time = $4, type = $5, description = $6, color = $7, student_id = $8, weeks = $9, updated_at = $10 WHERE time_block_id = $11`
	res, err := a.q.ExecContext(ctx, query, tb.Title, tb.Day, tb.StartTime, tb.EndTime, tb.Type, tb.Description, tb.Color, tb.StudentID, tb.Weeks, now, tb.ID)
	if err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("time block %d does not exist", tb.ID)
	}

	tb.UpdatedAt = now
	return &tb, nil
}

func (a *Accessor) DeleteByID(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM time_blocks WHERE time_block_id = $1`
	res, err := a.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("exec context: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

func (a *Accessor) ExistsByID(ctx context.Context, id int) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM time_blocks WHERE time_block_id = $1)`
	row := a.q.QueryRowContext(ctx, query, id)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("scan: %w", err)
	}

	return exists, nil
}

func (a *Accessor) DeleteAllByStudent(ctx context.Context, studentID int) error {
	query := `DELETE FROM time_blocks WHERE student_id = $1`
	if _, err := a.q.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}
