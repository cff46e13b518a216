// Package marketdata pulls currency→USD exchange rates from external
// providers and merges them into the persisted rate cache and the
// append-only rate history.
package marketdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valutatrade/hub"
)

// BaseCurrency is the quote side of every pair the providers return.
const BaseCurrency = "USD"

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// apiError wraps a provider failure in the domain error type.
func apiError(provider string, err error) error {
	return &hub.APIRequestError{Provider: provider, Err: err}
}
