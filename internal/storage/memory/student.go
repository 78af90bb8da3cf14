// README: Memory implementation of the student ledger contract.
package memory

import (
	"context"
	"sort"
	"time"

	"canteen/internal/modules/student"
	"canteen/internal/types"
)

type StudentStore struct {
	root     *Store
	students map[types.ID]student.Student
}

var _ student.Store = (*StudentStore)(nil)

func cloneStudent(s student.Student) student.Student {
	out := s
	out.Cancellations = append([]time.Time(nil), s.Cancellations...)
	return out
}

func (s *StudentStore) Get(_ context.Context, pid types.ID) (*student.Student, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	st, ok := s.students[pid]
	if !ok {
		return nil, student.ErrNotFound
	}
	out := cloneStudent(st)
	return &out, nil
}

func (s *StudentStore) Ensure(_ context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	st := s.ensureLocked(pid, at)
	out := cloneStudent(*st)
	return &out, nil
}

func (s *StudentStore) SetBlocked(_ context.Context, pid types.ID, blocked bool, reason string, at time.Time) (*student.Student, error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	st := s.ensureLocked(pid, at)
	st.Blocked = blocked
	st.BlockReason = reason
	st.UpdatedAt = at
	s.students[pid] = *st
	out := cloneStudent(*st)
	return &out, nil
}

func (s *StudentStore) AppendCancellation(_ context.Context, pid types.ID, at time.Time) (*student.Student, error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	st := s.ensureLocked(pid, at)
	st.Cancellations = append(st.Cancellations, at)
	st.UpdatedAt = at
	s.students[pid] = *st
	out := cloneStudent(*st)
	return &out, nil
}

func (s *StudentStore) List(_ context.Context) ([]student.Student, error) {
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	out := make([]student.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, cloneStudent(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

func (s *StudentStore) ReplaceAll(_ context.Context, students []student.Student) error {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	s.students = make(map[types.ID]student.Student, len(students))
	for _, st := range students {
		s.students[st.PID] = cloneStudent(st)
	}
	return nil
}

func (s *StudentStore) ensureLocked(pid types.ID, at time.Time) *student.Student {
	if s.students == nil {
		s.students = map[types.ID]student.Student{}
	}
	st, ok := s.students[pid]
	if !ok {
		st = student.Student{PID: pid, CreatedAt: at, UpdatedAt: at}
		s.students[pid] = st
	}
	return &st
}
