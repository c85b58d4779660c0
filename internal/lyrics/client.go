package lyrics

import (
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sukalov/chordview/internal/logger"
)

// Client fetches normalized song documents from the scraping edge
// function. The HTML extraction itself lives on the edge; this side only
// ever sees the JSON document.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: false,
					MinVersion:         tls.VersionTLS12,
					MaxVersion:         tls.VersionTLS13,
				},
				DisableCompression: false,
			},
		},
		userAgent: "chordview/1.0",
	}
}

// FetchDocument GETs the document payload from the given URL.
func (c *Client) FetchDocument(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create HTTP request\nURL: %s\nError: %v", url, err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to fetch document\nURL: %s\nError: %v", url, err))
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("HTTP error fetching document\nURL: %s\nStatus: %d", url, resp.StatusCode))
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body

	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create gzip reader\nURL: %s\nError: %v", url, err))
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to read response body\nURL: %s\nError: %v", url, err))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
