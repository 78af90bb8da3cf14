// README: Postgres implementation of the student ledger contract.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"canteen/internal/modules/student"
	"canteen/internal/types"
)

const studentColumns = `pid, blocked, block_reason, cancellations, created_at, updated_at`

const (
	selectStudentQuery = `
		SELECT ` + studentColumns + ` FROM students WHERE pid = $1`

	ensureStudentQuery = `
		INSERT INTO students (pid, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (pid) DO UPDATE SET pid = students.pid
		RETURNING ` + studentColumns

	setBlockedQuery = `
		INSERT INTO students (pid, blocked, block_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (pid) DO UPDATE
		SET blocked = $2, block_reason = $3, updated_at = $4
		RETURNING ` + studentColumns

	appendCancellationQuery = `
		INSERT INTO students (pid, cancellations, created_at, updated_at)
		VALUES ($1, ARRAY[$2::timestamptz], $2, $2)
		ON CONFLICT (pid) DO UPDATE
		SET cancellations = array_append(students.cancellations, $2), updated_at = $2
		RETURNING ` + studentColumns

	selectStudentsQuery = `
		SELECT ` + studentColumns + ` FROM students ORDER BY pid`

	insertStudentQuery = `
		INSERT INTO students (pid, blocked, block_reason, cancellations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

type StudentStore struct {
	db *DB
}

func NewStudentStore(db *DB) *StudentStore {
	return &StudentStore{db: db}
}

var _ student.Store = (*StudentStore)(nil)

func scanStudent(row pgx.Row) (*student.Student, error) {
	var st student.Student
	err := row.Scan(&st.PID, &st.Blocked, &st.BlockReason, &st.Cancellations,
		&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *StudentStore) Get(ctx context.Context, pid types.ID) (*student.Student, error) {
	return scanStudent(s.db.Pool.QueryRow(ctx, selectStudentQuery, string(pid)))
}

func (s *StudentStore) Ensure(ctx context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	return scanStudent(s.db.Pool.QueryRow(ctx, ensureStudentQuery, string(pid), at))
}

func (s *StudentStore) SetBlocked(ctx context.Context, pid types.ID, blocked bool, reason string, at time.Time) (*student.Student, error) {
	return scanStudent(s.db.Pool.QueryRow(ctx, setBlockedQuery, string(pid), blocked, reason, at))
}

func (s *StudentStore) AppendCancellation(ctx context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	return scanStudent(s.db.Pool.QueryRow(ctx, appendCancellationQuery, string(pid), at))
}

func (s *StudentStore) List(ctx context.Context) ([]student.Student, error) {
	rows, err := s.db.Pool.Query(ctx, selectStudentsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []student.Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *st)
	}
	return students, rows.Err()
}

func (s *StudentStore) ReplaceAll(ctx context.Context, students []student.Student) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM students`); err != nil {
		return err
	}
	for i := range students {
		st := &students[i]
		cancellations := st.Cancellations
		if cancellations == nil {
			cancellations = []time.Time{}
		}
		if _, err := tx.Exec(ctx, insertStudentQuery,
			string(st.PID), st.Blocked, st.BlockReason, cancellations,
			st.CreatedAt, st.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
