package xapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/buger/jsonparser"
)

type cachedToken struct {
	Token     string `json:"token"`
	Timestamp string `json:"timestamp"`
}

// GuestTokenCache keeps the anonymous guest token in a JSON file so repeated
// runs reuse one activation instead of hitting the endpoint every time.
type GuestTokenCache struct {
	cacheDir    string
	client      *http.Client
	activateURL string
}

func NewGuestTokenCache(cacheDir string, client *http.Client) *GuestTokenCache {
	if cacheDir == "" {
		cacheDir = DefaultTokenCacheDir
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GuestTokenCache{
		cacheDir:    cacheDir,
		client:      client,
		activateURL: GuestTokenURL,
	}
}

func (c *GuestTokenCache) tokenFilePath() string {
	return filepath.Join(c.cacheDir, TokenCacheFilename)
}

// Get returns the cached guest token. A cache miss, an unreadable cache file
// or forceRefresh triggers a new activation, persisted before returning.
func (c *GuestTokenCache) Get(forceRefresh bool) (string, error) {
	path := c.tokenFilePath()
	if !forceRefresh {
		if data, err := os.ReadFile(path); err == nil {
			cached := cachedToken{}
			if err := json.Unmarshal(data, &cached); err == nil && cached.Token != "" {
				return cached.Token, nil
			}
			log.Printf("Cached guest token at %s is unreadable, requesting a new one", path)
		}
	}

	token, err := c.activate()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		log.Printf("Warning: failed to create token cache dir %s: %v", c.cacheDir, err)
		return token, nil
	}
	data, _ := json.Marshal(cachedToken{Token: token, Timestamp: time.Now().Format(time.RFC3339)})
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: failed to cache guest token to %s: %v", path, err)
	}
	return token, nil
}

// Invalidate deletes the cache file. Idempotent, a missing file is not an error.
func (c *GuestTokenCache) Invalidate() error {
	err := os.Remove(c.tokenFilePath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *GuestTokenCache) activate() (string, error) {
	req, err := http.NewRequest(http.MethodPost, c.activateURL, nil)
	if err != nil {
		return "", err
	}
	for key, value := range defaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch guest token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read guest token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch guest token: %w", &APIError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	token, err := jsonparser.GetString(body, "guest_token")
	if err != nil || token == "" {
		return "", fmt.Errorf("guest token missing in activation response: %s", string(body))
	}
	log.Printf("Obtained new guest token: %s", token)
	return token, nil
}
