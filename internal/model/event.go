package model

import "time"

// Event carries a depleting points budget its organizers may award to guests.
// points_remain only ever decreases through the atomic award operation, and
// points_allocated - points_remain always equals the total awarded so far.
type Event struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	Name            string    `gorm:"column:name;type:varchar(128);not null"`
	Description     string    `gorm:"column:description;type:text"`
	Location        string    `gorm:"column:location;type:varchar(128)"`
	StartTime       time.Time `gorm:"column:start_time;not null"`
	EndTime         time.Time `gorm:"column:end_time;not null"`
	Capacity        *int64    `gorm:"column:capacity"`
	PointsAllocated int64     `gorm:"column:points_allocated;not null"`
	PointsRemain    int64     `gorm:"column:points_remain;not null"`
	Published       bool      `gorm:"column:published;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`

	Guests     []EventGuest     `gorm:"foreignKey:EventID"`
	Organizers []EventOrganizer `gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

// PointsAwarded is the total debited from the event budget so far.
func (e *Event) PointsAwarded() int64 {
	return e.PointsAllocated - e.PointsRemain
}

func (e *Event) IsOrganizer(userID int64) bool {
	for _, o := range e.Organizers {
		if o.UserID == userID {
			return true
		}
	}
	return false
}

func (e *Event) IsGuest(userID int64) bool {
	for _, g := range e.Guests {
		if g.UserID == userID {
			return true
		}
	}
	return false
}

type EventGuest struct {
	EventID int64     `gorm:"primaryKey;autoIncrement:false;column:event_id"`
	UserID  int64     `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	AddedAt time.Time `gorm:"column:added_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (EventGuest) TableName() string {
	return "event_guests"
}

type EventOrganizer struct {
	EventID int64     `gorm:"primaryKey;autoIncrement:false;column:event_id"`
	UserID  int64     `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	AddedAt time.Time `gorm:"column:added_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (EventOrganizer) TableName() string {
	return "event_organizers"
}
