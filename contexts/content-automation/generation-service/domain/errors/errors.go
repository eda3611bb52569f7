package errors

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrItemNotFound           = errors.New("campaign item not found")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrInvalidStateTransition = errors.New("invalid campaign state transition")
	ErrInvalidItemTransition  = errors.New("invalid item status transition")
	ErrItemNotEditable        = errors.New("item cannot be edited after generation started")
	ErrNoItems                = errors.New("campaign has no items")
	ErrNoFailedItems          = errors.New("campaign has no failed items")
	ErrItemsAwaitingReview    = errors.New("campaign has items awaiting review")
)
