package model

import "time"

// NotificationEvent is an outbox row consumed by the notification delivery
// service. The core only appends; templating, delivery and retry live on the
// consumer side.
type NotificationEvent struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Kind         string    `gorm:"size:64;not null"`
	RecipientUID string    `gorm:"column:recipient_uid;size:128;index;not null"`
	EntityType   string    `gorm:"column:entity_type;size:32;not null"`
	EntityID     uint64    `gorm:"column:entity_id;not null"`
	Params       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (NotificationEvent) TableName() string {
	return "notification_events"
}
