// README: Data lifecycle: export, import, factory reset, first-run seeding.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"canteen/internal/events"
	"canteen/internal/modules/menu"
	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
	"canteen/internal/types"
)

var ErrInvalidDump = errors.New("invalid backup data")

// Dump is the portable JSON shape of the whole store. Students are keyed by
// PID, mirroring how the ledger is addressed.
type Dump struct {
	Settings *settings.Settings         `json:"settings,omitempty"`
	Menu     []menu.Item                `json:"menu"`
	Orders   []order.Order              `json:"orders"`
	Students map[string]student.Student `json:"students"`
}

type Service struct {
	orders   order.Store
	students student.Store
	menu     menu.Store
	settings settings.Store
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(orders order.Store, students student.Store, menuStore menu.Store, settingsStore settings.Store, notifier events.Notifier, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		students: students,
		menu:     menuStore,
		settings: settingsStore,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Bootstrap seeds settings and the default menu when the store has never
// been initialized. Safe to call on every start.
func (s *Service) Bootstrap(ctx context.Context) error {
	_, err := s.settings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, settings.ErrNotInitialized) {
		return err
	}
	now := s.now()
	if err := s.settings.Put(ctx, settings.Defaults(now, settings.HashPassword(settings.DefaultStaffPassword))); err != nil {
		return err
	}
	if err := s.menu.ReplaceAll(ctx, menu.DefaultItems(now, uuid.NewString)); err != nil {
		return err
	}
	s.logger.Info("store initialized with default settings and menu")
	return nil
}

func (s *Service) Export(ctx context.Context) ([]byte, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil && !errors.Is(err, settings.ErrNotInitialized) {
		return nil, err
	}
	items, err := s.menu.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	dump := Dump{
		Settings: cfg,
		Menu:     items,
		Orders:   orders,
		Students: make(map[string]student.Student, len(students)),
	}
	for _, st := range students {
		dump.Students[string(st.PID)] = st
	}
	return json.MarshalIndent(dump, "", "  ")
}

// Import replaces every collection with the dump's contents.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	var dump Dump
	if err := json.Unmarshal(raw, &dump); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if dump.Settings != nil {
		dump.Settings.UpdatedAt = s.now()
		if err := s.settings.Put(ctx, dump.Settings); err != nil {
			return err
		}
	}
	if err := s.menu.ReplaceAll(ctx, dump.Menu); err != nil {
		return err
	}
	if err := s.orders.ReplaceAll(ctx, dump.Orders); err != nil {
		return err
	}
	students := make([]student.Student, 0, len(dump.Students))
	for pid, st := range dump.Students {
		st.PID = types.NormalizePID(pid)
		students = append(students, st)
	}
	if err := s.students.ReplaceAll(ctx, students); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindSettings, "import")
	return nil
}

// Reset wipes everything and reseeds first-run defaults.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.orders.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := s.students.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	now := s.now()
	if err := s.menu.ReplaceAll(ctx, menu.DefaultItems(now, uuid.NewString)); err != nil {
		return err
	}
	if err := s.settings.Put(ctx, settings.Defaults(now, settings.HashPassword(settings.DefaultStaffPassword))); err != nil {
		return err
	}
	s.notifier.EntityChanged(ctx, events.KindSettings, "reset")
	s.logger.Warn("factory reset performed")
	return nil
}
