package model

import "time"

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

type ProposalSide string

const (
	// SideOffered marks a proposer-owned listing put up in exchange.
	SideOffered ProposalSide = "OFFERED"
	// SideRequested marks the target listing the proposer wants.
	SideRequested ProposalSide = "REQUESTED"
)

type Proposal struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`
	// ListingID is the target listing the proposer is asking for.
	ListingID   uint64 `gorm:"column:listing_id;index;not null"`
	ProposerUID string `gorm:"column:proposer_uid;size:128;index;not null"`
	// ReceiverUID is the target listing's owner, captured at creation time so
	// received-proposal queries do not have to join through listings.
	ReceiverUID string         `gorm:"column:receiver_uid;size:128;index;not null"`
	Message     string         `gorm:"type:text"`
	Status      ProposalStatus `gorm:"size:16;not null"`
	Items       []ProposalItem `gorm:"foreignKey:ProposalID"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Proposal) TableName() string {
	return "proposals"
}

type ProposalItem struct {
	ID         uint64       `gorm:"primaryKey;autoIncrement"`
	ProposalID uint64       `gorm:"column:proposal_id;index;not null"`
	ListingID  uint64       `gorm:"column:listing_id;index;not null"`
	Side       ProposalSide `gorm:"size:16;not null"`
	CreatedAt  time.Time    `gorm:"autoCreateTime"`
}

func (ProposalItem) TableName() string {
	return "proposal_items"
}
