// Package services implements the inventory use cases: kinds of room, rooms
// and equipment.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/room-management/internal/cache"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Repository is the storage used by the inventory services.
type Repository interface {
	CreateKindOfRoom(ctx context.Context, k models.KindOfRoom) error
	UpdateKindOfRoom(ctx context.Context, k models.KindOfRoom) error
	GetKindOfRoom(ctx context.Context, id string) (*models.KindOfRoom, error)
	ListKindsOfRoom(ctx context.Context) ([]models.KindOfRoom, error)
	RemoveKindOfRoomByCode(ctx context.Context, code string) error

	CreateRoom(ctx context.Context, r models.Room) error
	UpdateRoom(ctx context.Context, r models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	RemoveRoomByCode(ctx context.Context, code string) error

	CreateEquipment(ctx context.Context, e models.Equipment) error
	UpdateEquipment(ctx context.Context, e models.Equipment) error
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	RemoveEquipmentByCode(ctx context.Context, code string) error
}

// Cache drops cached analytics after writes.
type Cache interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// InventoryService groups the inventory use cases.
type InventoryService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewInventoryService creates an InventoryService.
func NewInventoryService(repo Repository, cache Cache, log *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// KindsOfRoom returns the kind-of-room use cases.
func (s *InventoryService) KindsOfRoom() KindOfRoomService { return KindOfRoomService{s} }

// Rooms returns the room use cases.
func (s *InventoryService) Rooms() RoomService { return RoomService{s} }

// Equipment returns the equipment use cases.
func (s *InventoryService) Equipment() EquipmentService { return EquipmentService{s} }

func (s *InventoryService) invalidateAnalytics(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.AnalyticsPrefix); err != nil {
		s.log.Warn("failed to invalidate analytics cache", sl.Err(err))
	}
}

// ===== KIND OF ROOM =====

// KindOfRoomService manages room categories. A price change moves every
// revenue figure, so writes drop cached analytics.
type KindOfRoomService struct{ s *InventoryService }

func kindFromRequest(id string, req models.DummyKindOfRoom) models.KindOfRoom {
	return models.KindOfRoom{
		ID:      id,
		Code:    req.Code,
		Name:    req.Name,
		Price:   *req.Price,
		Deposit: *req.Deposit,
	}
}

func (k KindOfRoomService) Create(ctx context.Context, req models.DummyKindOfRoom) (*models.KindOfRoom, error) {
	const op = "services.inventory.CreateKindOfRoom"
	kind := kindFromRequest(uuid.NewString(), req)
	if err := k.s.repo.CreateKindOfRoom(ctx, kind); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	k.s.log.Info("kind of room created", slog.String("id", kind.ID), slog.String("code", kind.Code))
	k.s.invalidateAnalytics(ctx)
	return &kind, nil
}

func (k KindOfRoomService) Update(ctx context.Context, id string, req models.DummyKindOfRoom) (*models.KindOfRoom, error) {
	const op = "services.inventory.UpdateKindOfRoom"
	kind := kindFromRequest(id, req)
	if err := k.s.repo.UpdateKindOfRoom(ctx, kind); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	k.s.invalidateAnalytics(ctx)
	return &kind, nil
}

func (k KindOfRoomService) Get(ctx context.Context, id string) (*models.KindOfRoom, error) {
	const op = "services.inventory.GetKindOfRoom"
	kind, err := k.s.repo.GetKindOfRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return kind, nil
}

func (k KindOfRoomService) List(ctx context.Context) ([]models.KindOfRoom, error) {
	const op = "services.inventory.ListKindsOfRoom"
	kinds, err := k.s.repo.ListKindsOfRoom(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return kinds, nil
}

func (k KindOfRoomService) Remove(ctx context.Context, code string) error {
	const op = "services.inventory.RemoveKindOfRoom"
	if err := k.s.repo.RemoveKindOfRoomByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	k.s.invalidateAnalytics(ctx)
	return nil
}

// ===== ROOM =====

// RoomService manages rooms. The occupied flag is owned by agreement writes
// and never taken from a request.
type RoomService struct{ s *InventoryService }

func (rs RoomService) Create(ctx context.Context, req models.DummyRoom) (*models.Room, error) {
	const op = "services.inventory.CreateRoom"
	room := models.Room{
		ID:           uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		KindOfRoomID: req.KindOfRoomID,
	}
	if err := rs.s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rs.s.log.Info("room created", slog.String("id", room.ID), slog.String("code", room.Code))
	rs.s.invalidateAnalytics(ctx)
	return &room, nil
}

func (rs RoomService) Update(ctx context.Context, id string, req models.DummyRoom) (*models.Room, error) {
	const op = "services.inventory.UpdateRoom"
	room := models.Room{
		ID:           id,
		Code:         req.Code,
		Name:         req.Name,
		KindOfRoomID: req.KindOfRoomID,
	}
	if err := rs.s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rs.s.invalidateAnalytics(ctx)

	updated, err := rs.s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (rs RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	const op = "services.inventory.GetRoom"
	room, err := rs.s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

func (rs RoomService) List(ctx context.Context) ([]models.Room, error) {
	const op = "services.inventory.ListRooms"
	rooms, err := rs.s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rooms, nil
}

// Remove deletes a room. Agreements and bills keep pointing at it and are
// rendered with empty room details afterwards.
func (rs RoomService) Remove(ctx context.Context, code string) error {
	const op = "services.inventory.RemoveRoom"
	if err := rs.s.repo.RemoveRoomByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rs.s.invalidateAnalytics(ctx)
	return nil
}

// ===== EQUIPMENT =====

// EquipmentService manages inventory items.
type EquipmentService struct{ s *InventoryService }

func (es EquipmentService) Create(ctx context.Context, req models.DummyEquipment) (*models.Equipment, error) {
	const op = "services.inventory.CreateEquipment"
	item := models.Equipment{ID: uuid.NewString(), Code: req.Code, Name: req.Name, Number: *req.Number}
	if err := es.s.repo.CreateEquipment(ctx, item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

func (es EquipmentService) Update(ctx context.Context, id string, req models.DummyEquipment) (*models.Equipment, error) {
	const op = "services.inventory.UpdateEquipment"
	item := models.Equipment{ID: id, Code: req.Code, Name: req.Name, Number: *req.Number}
	if err := es.s.repo.UpdateEquipment(ctx, item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

func (es EquipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	const op = "services.inventory.GetEquipment"
	item, err := es.s.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func (es EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	const op = "services.inventory.ListEquipment"
	items, err := es.s.repo.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (es EquipmentService) Remove(ctx context.Context, code string) error {
	const op = "services.inventory.RemoveEquipment"
	if err := es.s.repo.RemoveEquipmentByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
