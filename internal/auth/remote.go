package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

type RemoteProvider struct {
	AuthServiceURL string
	HTTPClient     *http.Client
	logger         internal.Logger
}

func NewRemoteProvider(url string, logger internal.Logger) *RemoteProvider {
	return &RemoteProvider{
		AuthServiceURL: url,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}

func (a *RemoteProvider) ValidateTokenLocal(token string) (*internal.Caregiver, error) {
	return nil, errors.New("not implemented in RemoteProvider")
}

func (a *RemoteProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.Caregiver, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.AuthServiceURL, strings.NewReader(string(payload)))
	if err != nil {
		a.logger.Errorf("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.logger.Errorf("auth service returned %d", resp.StatusCode)
		return nil, errors.New("auth service returned non-200")
	}
	var caregiver internal.Caregiver
	if err := json.NewDecoder(resp.Body).Decode(&caregiver); err != nil {
		a.logger.Errorf("failed to decode auth response: %v", err)
		return nil, err
	}
	return &caregiver, nil
}
