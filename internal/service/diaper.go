package service

import (
	"context"
	"time"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

type DiaperChangeRequest struct {
	Type  internal.DiaperType `json:"type" validate:"required,oneof=WET DIRTY BOTH"`
	Notes string              `json:"notes,omitempty"`
}

func ValidateDiaperChangeRequest(body *DiaperChangeRequest) error {
	return validate.Struct(body)
}

func AddDiaperChange(ctx context.Context, repo storage.DiaperRepository, body *DiaperChangeRequest) (*internal.DiaperChange, error) {
	return repo.AddDiaperChange(ctx, &internal.DiaperChange{
		Timestamp: time.Now(),
		Type:      body.Type,
		Notes:     body.Notes,
	})
}

func DeleteDiaperChange(ctx context.Context, repo storage.DiaperRepository, id string) error {
	return repo.DeleteDiaperChange(ctx, id)
}
