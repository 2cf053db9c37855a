package model

import "time"

type SwapStatus string

const (
	SwapStatusInProgress SwapStatus = "IN_PROGRESS"
	SwapStatusCompleted  SwapStatus = "COMPLETED"
)

// Swap is the execution record created when a proposal is accepted. UserA is
// the target listing's owner, UserB the proposer. It completes only after
// both sides confirm receipt.
type Swap struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	ProposalID   uint64     `gorm:"column:proposal_id;uniqueIndex;not null"`
	ListingID    uint64     `gorm:"column:listing_id;index;not null"`
	AUserUID     string     `gorm:"column:a_user_uid;size:128;index;not null"`
	BUserUID     string     `gorm:"column:b_user_uid;size:128;index;not null"`
	Status       SwapStatus `gorm:"size:20;not null"`
	AConfirmedAt *time.Time `gorm:"column:a_confirmed_at"`
	BConfirmedAt *time.Time `gorm:"column:b_confirmed_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Swap) TableName() string {
	return "swaps"
}

// IsParticipant reports whether uid is one of the two swap parties.
func (s *Swap) IsParticipant(uid string) bool {
	return uid == s.AUserUID || uid == s.BUserUID
}

// Counterpart returns the other party of the swap relative to uid.
func (s *Swap) Counterpart(uid string) string {
	if uid == s.AUserUID {
		return s.BUserUID
	}
	return s.AUserUID
}
