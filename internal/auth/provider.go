package auth

import (
	"context"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

type Provider interface {
	ValidateTokenLocal(token string) (*internal.Caregiver, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.Caregiver, error)
}
