package auth

import (
	"context"
	"errors"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

// LocalProvider accepts a single shared token. Good enough for a
// personal-use deployment; remote validation is for everything else.
type LocalProvider struct {
	Token  string
	logger internal.Logger
}

func NewLocalProvider(token string, logger internal.Logger) *LocalProvider {
	return &LocalProvider{Token: token, logger: logger}
}

func (a *LocalProvider) ValidateTokenLocal(token string) (*internal.Caregiver, error) {
	if token == a.Token {
		return &internal.Caregiver{ID: "c1", Token: a.Token, Name: "Caregiver"}, nil
	}
	a.logger.Warnf("invalid token")
	return nil, errors.New("invalid token")
}

func (a *LocalProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.Caregiver, error) {
	return nil, errors.New("not implemented in LocalProvider")
}
