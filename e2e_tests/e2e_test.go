// Package e2e_tests provides end-to-end tests for the favorites admin pages
// running against real Docker Compose services (app + PostgreSQL).
//
// Usage:
//
//	go test -v -count=1   # with the services already running
//
// Override the default base URLs with:
//
//	API_BASE_URL=http://localhost:9000 HEALTH_BASE_URL=http://localhost:9001 go test -v -count=1
package e2e_tests

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAPIBase    = "http://localhost:8000"
	defaultHealthBase = "http://localhost:8001"
)

func apiBase() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return defaultAPIBase
}

func healthBase() string {
	if v := os.Getenv("HEALTH_BASE_URL"); v != "" {
		return v
	}
	return defaultHealthBase
}

func favoritesURL() string {
	return apiBase() + "/admin/favorites"
}

// jwtSecret returns the JWT secret used by the running service.
// When empty, the service must accept unsigned tokens (alg=none).
func jwtSecret() string {
	return os.Getenv("JWT_SECRET")
}

func tokenFor(userID string, rights ...string) string {
	claims := jwt.MapClaims{
		"sub":    userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"rights": rights,
	}
	secret := jwtSecret()
	if secret == "" {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		return s
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(secret))
	return s
}

// ---------- TestMain: wait for services before running ----------

func TestMain(m *testing.M) {
	if err := waitForReady(60 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "services not ready: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := healthBase() + "/health/ready"

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s", url)
}

// ---------- Helpers ----------

// browser keeps the session cookie between requests and follows redirects.
type browser struct {
	client *http.Client
	token  string
}

func newBrowser(t *testing.T, token string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &browser{client: &http.Client{Jar: jar, Timeout: 10 * time.Second}, token: token}
}

type page struct {
	StatusCode int
	URL        *url.URL
	Body       string
}

func (b *browser) do(t *testing.T, method, target string, form url.Values) page {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return page{StatusCode: resp.StatusCode, URL: resp.Request.URL, Body: string(raw)}
}

func (b *browser) get(t *testing.T, query string) page {
	t.Helper()
	return b.do(t, http.MethodGet, favoritesURL()+query, nil)
}

func (b *browser) post(t *testing.T, form url.Values) page {
	t.Helper()
	return b.do(t, http.MethodPost, favoritesURL(), form)
}

func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d", want, got)
	}
}

func requireContains(t *testing.T, p page, want string) {
	t.Helper()
	if !strings.Contains(p.Body, want) {
		t.Fatalf("expected page %s to contain %q", p.URL, want)
	}
}

// favoriteID finds the list row holding label and returns its id.
func favoriteID(t *testing.T, p page, label string) string {
	t.Helper()
	re := regexp.MustCompile(`<tr data-id="(\d+)">\s*<td>\d+</td>\s*<td>` + regexp.QuoteMeta(label) + `</td>`)
	m := re.FindStringSubmatch(p.Body)
	if m == nil {
		t.Fatalf("favorite %q not found in list", label)
	}
	return m[1]
}

func uniqueLabel(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

func adminBrowser(t *testing.T) *browser {
	return newBrowser(t, tokenFor("e2e-admin", "FAVORITES_MANAGEMENT"))
}

// ---------- Health ----------

func TestHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(healthBase() + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		requireStatus(t, resp.StatusCode, http.StatusOK)
	}
}

// ---------- Authorization ----------

func TestAuthorization(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		p := newBrowser(t, "").get(t, "")
		requireStatus(t, p.StatusCode, http.StatusUnauthorized)
	})

	t.Run("missing right", func(t *testing.T) {
		p := newBrowser(t, tokenFor("e2e-viewer", "DASHBOARD_VIEW")).get(t, "")
		requireStatus(t, p.StatusCode, http.StatusForbidden)
	})
}

// ---------- Favorite lifecycle ----------

func TestFavoriteLifecycle(t *testing.T) {
	b := adminBrowser(t)
	label := uniqueLabel("E2E Sales")

	// Create
	p := b.post(t, url.Values{
		"action":     {"createFavorite"},
		"label":      {label},
		"url":        {"https://dashboard.example.com/sales"},
		"remote_id":  {"sales-42"},
		"is_default": {"on"},
	})
	requireStatus(t, p.StatusCode, http.StatusOK)
	requireContains(t, p, "The favorite has been created.")
	requireContains(t, p, label)
	id := favoriteID(t, p, label)

	// Modify form is filled from the store
	p = b.get(t, "?view=modifyFavorite&id="+id)
	requireStatus(t, p.StatusCode, http.StatusOK)
	requireContains(t, p, `value="`+label+`"`)

	// Modify
	renamed := label + " (renamed)"
	p = b.post(t, url.Values{
		"action": {"modifyFavorite"},
		"id":     {id},
		"label":  {renamed},
		"url":    {"https://dashboard.example.com/sales/2024"},
	})
	requireStatus(t, p.StatusCode, http.StatusOK)
	requireContains(t, p, "The favorite has been updated.")
	if got := favoriteID(t, p, renamed); got != id {
		t.Fatalf("expected renamed favorite to keep id %s, got %s", id, got)
	}

	// Toggle activation
	p = b.post(t, url.Values{"action": {"toggleActivationFavorite"}, "id": {id}})
	requireStatus(t, p.StatusCode, http.StatusOK)

	// Confirm then remove
	p = b.post(t, url.Values{"action": {"confirmRemoveFavorite"}, "id": {id}})
	requireStatus(t, p.StatusCode, http.StatusOK)
	if p.URL.Path != "/admin/message" {
		t.Fatalf("expected confirmation page, landed on %s", p.URL)
	}
	requireContains(t, p, "Are you sure you want to remove this favorite?")

	p = b.do(t, http.MethodPost, favoritesURL()+"?action=removeFavorite&id="+id, nil)
	requireStatus(t, p.StatusCode, http.StatusOK)
	requireContains(t, p, "The favorite has been removed.")
	if strings.Contains(p.Body, renamed) {
		t.Fatalf("expected %q to be gone from the list", renamed)
	}
}

func TestInvalidCreateKeepsDraft(t *testing.T) {
	b := adminBrowser(t)
	label := uniqueLabel("E2E Draft")

	p := b.post(t, url.Values{
		"action": {"createFavorite"},
		"label":  {label},
		"url":    {"not a url"},
	})
	requireStatus(t, p.StatusCode, http.StatusOK)
	if got := p.URL.Query().Get("view"); got != "createFavorite" {
		t.Fatalf("expected to land back on the create form, got view=%q", got)
	}
	requireContains(t, p, `data-field="url"`)
	requireContains(t, p, `value="`+label+`"`)
}

func TestMalformedAndMissingIDs(t *testing.T) {
	b := adminBrowser(t)

	p := b.get(t, "?view=modifyFavorite&id=abc")
	requireStatus(t, p.StatusCode, http.StatusBadRequest)

	p = b.post(t, url.Values{"action": {"toggleActivationFavorite"}, "id": {"999999999"}})
	requireStatus(t, p.StatusCode, http.StatusNotFound)
}
