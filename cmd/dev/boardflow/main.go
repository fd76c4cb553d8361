// Command boardflow drives a running board API through a typical filter session and
// prints what each step returned.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type client struct {
	base string
	user string
	http *http.Client
}

func (c client) call(method, path string, body any) (int, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", c.user)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

type step struct {
	name   string
	method string
	path   string
	body   any
}

func main() {
	var (
		base = flag.String("base", "", "board api base url (defaults to http://localhost<HTTP_ADDR>)")
		user = flag.String("user", "1", "X-User-ID")
	)
	flag.Parse()

	if *base == "" {
		httpAddr := os.Getenv("HTTP_ADDR")
		if httpAddr == "" {
			httpAddr = ":8081"
		}
		if strings.HasPrefix(httpAddr, ":") {
			*base = "http://localhost" + httpAddr
		} else {
			*base = "http://" + httpAddr
		}
	}
	c := client{base: strings.TrimRight(*base, "/"), user: *user, http: &http.Client{Timeout: 30 * time.Second}}

	steps := []step{
		{"initial page", http.MethodGet, "/v1/board?settle=true", nil},
		{"filter approved", http.MethodPost, "/v1/board/filters/statuses/toggle", map[string]any{"id": "APPROVED"}},
		{"quote range", http.MethodPut, "/v1/board/filters/quotePrice/range", map[string]any{"start": "500", "end": "5000"}},
		{"sort by price", http.MethodPatch, "/v1/board/sort", map[string]any{"field": "quote_price", "direction": "desc"}},
		{"save preset", http.MethodPost, "/v1/board/presets", map[string]any{"label": "Dev flow"}},
		{"settled page", http.MethodGet, "/v1/board?settle=true", nil},
		{"reset filters", http.MethodDelete, "/v1/board/filters", nil},
		{"reapply preset", http.MethodPost, "/v1/board/presets/dev_flow/toggle", nil},
		{"notifications", http.MethodGet, "/v1/board/notifications", nil},
	}

	for _, s := range steps {
		code, body, err := c.call(s.method, s.path, s.body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", s.name, err)
			os.Exit(1)
		}
		fmt.Printf("%-16s %d %s\n", s.name, code, summarize(body))
		if code >= 400 {
			os.Exit(1)
		}
	}

	code, body, err := c.call(http.MethodGet, "/v1/orders/1/progress", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "progress: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%-16s %d %s\n", "order 1 progress", code, summarize(body))
}

// summarize prints the page totals of a board view, or the raw body otherwise.
func summarize(body []byte) string {
	var view struct {
		Data *struct {
			Rows  []json.RawMessage `json:"rows"`
			Total int64             `json:"totalElements"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &view); err == nil && view.Data != nil {
		return fmt.Sprintf("rows=%d total=%d", len(view.Data.Rows), view.Data.Total)
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 160 {
		s = s[:160] + "..."
	}
	return s
}
