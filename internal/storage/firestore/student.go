// README: Firestore implementation of the student store contract.
package firestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"canteen/internal/modules/student"
	"canteen/internal/types"
)

type StudentStore struct {
	client *firestore.Client
}

func NewStudentStore(client *firestore.Client) *StudentStore {
	return &StudentStore{client: client}
}

var _ student.Store = (*StudentStore)(nil)

func (s *StudentStore) doc(pid types.ID) *firestore.DocumentRef {
	return s.client.Collection(colStudents).Doc(string(pid))
}

func (s *StudentStore) Get(ctx context.Context, pid types.ID) (*student.Student, error) {
	snap, err := s.doc(pid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, student.ErrNotFound
		}
		return nil, err
	}
	var st student.Student
	if err := snap.DataTo(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StudentStore) Ensure(ctx context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	ref := s.doc(pid)
	var st student.Student
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			return snap.DataTo(&st)
		}
		if !isNotFound(err) {
			return err
		}
		st = student.Student{PID: pid, Cancellations: []time.Time{}, CreatedAt: at, UpdatedAt: at}
		return tx.Set(ref, &st)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StudentStore) SetBlocked(ctx context.Context, pid types.ID, blocked bool, reason string, at time.Time) (*student.Student, error) {
	return s.mutate(ctx, pid, at, func(st *student.Student) {
		st.Blocked = blocked
		st.BlockReason = reason
		st.UpdatedAt = at
	})
}

func (s *StudentStore) AppendCancellation(ctx context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	return s.mutate(ctx, pid, at, func(st *student.Student) {
		st.Cancellations = append(st.Cancellations, at)
		st.UpdatedAt = at
	})
}

// mutate upserts: an absent document is created with defaults before the
// mutation is applied, matching the other backends.
func (s *StudentStore) mutate(ctx context.Context, pid types.ID, at time.Time, fn func(*student.Student)) (*student.Student, error) {
	ref := s.doc(pid)
	var st student.Student
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			if err := snap.DataTo(&st); err != nil {
				return err
			}
		case isNotFound(err):
			st = student.Student{PID: pid, Cancellations: []time.Time{}, CreatedAt: at, UpdatedAt: at}
		default:
			return err
		}
		fn(&st)
		return tx.Set(ref, &st)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StudentStore) List(ctx context.Context) ([]student.Student, error) {
	iter := s.client.Collection(colStudents).Documents(ctx)
	defer iter.Stop()
	students := []student.Student{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var st student.Student
		if err := snap.DataTo(&st); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].PID < students[j].PID })
	return students, nil
}

func (s *StudentStore) ReplaceAll(ctx context.Context, students []student.Student) error {
	existing, err := s.client.Collection(colStudents).Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	bw := s.client.BulkWriter(ctx)
	for _, snap := range existing {
		_, _ = bw.Delete(snap.Ref)
	}
	for i := range students {
		_, _ = bw.Set(s.doc(students[i].PID), &students[i])
	}
	bw.End()
	return nil
}
