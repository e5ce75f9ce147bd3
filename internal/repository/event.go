package repository

import (
	"context"
	"errors"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("EVENT_NOT_FOUND")
	ErrAlreadyGuest       = errors.New("ALREADY_GUEST")
	ErrEventFull          = errors.New("EVENT_FULL")
	ErrGuestNotFound      = errors.New("GUEST_NOT_FOUND")
	ErrInsufficientBudget = errors.New("INSUFFICIENT_BUDGET")
	ErrAllocationTooLow   = errors.New("ALLOCATION_TOO_LOW")
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (model.Event, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Event, int64, error)
	Update(ctx context.Context, event *model.Event) error
	AdjustAllocation(ctx context.Context, id int64, delta int64) error
	DebitBudget(ctx context.Context, id int64, total int64) error
	AddGuest(ctx context.Context, eventID, userID int64, capacity *int64) error
	RemoveGuest(ctx context.Context, eventID, userID int64) error
	AddOrganizer(ctx context.Context, eventID, userID int64) error
}

type event struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &event{db: db}
}

func (r *event) Create(ctx context.Context, ev *model.Event) error {
	db := GetTx(ctx, r.db)
	return db.Omit("Guests", "Organizers").Create(ev).Error
}

func (r *event) GetByID(ctx context.Context, id int64) (model.Event, error) {
	db := GetTx(ctx, r.db)

	var ev model.Event
	err := db.Preload("Guests").Preload("Organizers").Where("id = ?", id).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, err
	}

	return ev, nil
}

func (r *event) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Event, int64, error) {
	db := GetTx(ctx, r.db)

	query := db.Model(&model.Event{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []model.Event
	err := query.Preload("Guests").Preload("Organizers").
		Order("start_time ASC").Limit(limit).Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *event) Update(ctx context.Context, ev *model.Event) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Event{}).
		Where("id = ?", ev.ID).
		Updates(map[string]interface{}{
			"name":        ev.Name,
			"description": ev.Description,
			"location":    ev.Location,
			"start_time":  ev.StartTime,
			"end_time":    ev.EndTime,
			"capacity":    ev.Capacity,
			"published":   ev.Published,
		})

	return res.Error
}

// AdjustAllocation moves points_allocated and points_remain by the same
// delta. The guard refuses a reduction that would take points_remain below
// what has already been awarded.
func (r *event) AdjustAllocation(ctx context.Context, id int64, delta int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Event{}).
		Where("id = ? AND points_remain + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"points_allocated": gorm.Expr("points_allocated + ?", delta),
			"points_remain":    gorm.Expr("points_remain + ?", delta),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrAllocationTooLow
	}

	return nil
}

// DebitBudget takes the full award total out of the event budget in one
// guarded statement, so concurrent awards serialize against points_remain
// and the pool can never go negative.
func (r *event) DebitBudget(ctx context.Context, id int64, total int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Event{}).
		Where("id = ? AND points_remain >= ?", id, total).
		Update("points_remain", gorm.Expr("points_remain - ?", total))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrInsufficientBudget
	}

	return nil
}

// AddGuest inserts the guest row guarded on the current guest count, so two
// concurrent additions cannot both squeeze into the last seat. A nil capacity
// means unlimited.
func (r *event) AddGuest(ctx context.Context, eventID, userID int64, capacity *int64) error {
	db := GetTx(ctx, r.db)

	if capacity == nil {
		err := db.Create(&model.EventGuest{EventID: eventID, UserID: userID}).Error
		return translateGuestInsert(err)
	}

	res := db.Exec(
		"INSERT INTO event_guests (event_id, user_id) SELECT ?, ? FROM dual WHERE (SELECT COUNT(*) FROM event_guests WHERE event_id = ?) < ?",
		eventID, userID, eventID, *capacity,
	)
	if res.Error != nil {
		return translateGuestInsert(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrEventFull
	}

	return nil
}

func translateGuestInsert(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAlreadyGuest
	}

	return err
}

func (r *event) RemoveGuest(ctx context.Context, eventID, userID int64) error {
	db := GetTx(ctx, r.db)

	res := db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&model.EventGuest{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}

	return nil
}

// AddOrganizer drops any guest row for the same user first; organizers are
// excluded from the guest list structurally.
func (r *event) AddOrganizer(ctx context.Context, eventID, userID int64) error {
	db := GetTx(ctx, r.db)

	if err := db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&model.EventGuest{}).Error; err != nil {
		return err
	}

	err := db.Create(&model.EventOrganizer{EventID: eventID, UserID: userID}).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return nil
	}

	return err
}
