// File: /clients/gps_client.go
package clients

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"fleettrack-api/models"
)

// GPSClient fetches live telemetry from the upstream GPS provider
type GPSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGPSClient(baseURL, apiKey string, timeout time.Duration) *GPSClient {
	return &GPSClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchObjects issues the provider's USER_GET_OBJECTS call and returns the
// raw telemetry records for every device on the account
func (g *GPSClient) FetchObjects() ([]models.ProviderObject, error) {
	url := fmt.Sprintf("%s?api=user&ver=1.0&key=%s&cmd=USER_GET_OBJECTS", g.baseURL, g.apiKey)

	resp, err := g.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("gps provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gps provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gps provider response: %w", err)
	}

	objects, err := models.ParseProviderObjects(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gps provider response: %w", err)
	}

	return objects, nil
}
