package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

const testClientSecret = `{"installed":{"client_id":"cid","client_secret":"csecret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

const testToken = `{"access_token":"abc","token_type":"Bearer","expiry":"2099-01-01T00:00:00Z"}`

func writeCreds(t *testing.T, secret, token string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "client_secret.json")
	tokenPath := filepath.Join(dir, "token.json")
	if secret != "" {
		if err := os.WriteFile(secretPath, []byte(secret), 0o600); err != nil {
			t.Fatalf("write secret: %v", err)
		}
	}
	if token != "" {
		if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
			t.Fatalf("write token: %v", err)
		}
	}
	return secretPath, tokenPath
}

func TestConfigured(t *testing.T) {
	secret, token := writeCreds(t, testClientSecret, testToken)
	if !NewClient(secret, token, 5, nil).Configured() {
		t.Fatalf("expected configured with both files present")
	}

	secretOnly, missingToken := writeCreds(t, testClientSecret, "")
	if NewClient(secretOnly, missingToken, 5, nil).Configured() {
		t.Fatalf("expected unconfigured without saved token")
	}
	if NewClient("", "", 5, nil).Configured() {
		t.Fatalf("expected unconfigured with empty paths")
	}
}

func TestFetchLikesAndPlaylists(t *testing.T) {
	var (
		mu      sync.Mutex
		gotAuth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/videos"):
			if r.URL.Query().Get("myRating") != "like" || r.URL.Query().Get("maxResults") != "5" {
				t.Errorf("unexpected videos query %q", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Batman Begins Trailer"}},{"snippet":{"title":"Rain Sounds"}}]}`)
		case strings.HasSuffix(r.URL.Path, "/playlists"):
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Gotham Nights"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	secret, token := writeCreds(t, testClientSecret, testToken)
	c := NewClient(secret, token, 5, nil).WithEndpoint(srv.URL + "/")

	likes, playlists, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Join(likes, "|") != "Batman Begins Trailer|Rain Sounds" {
		t.Fatalf("unexpected likes %v", likes)
	}
	if strings.Join(playlists, "|") != "Gotham Nights" {
		t.Fatalf("unexpected playlists %v", playlists)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer abc" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota"}}`)
	}))
	defer srv.Close()

	secret, token := writeCreds(t, testClientSecret, testToken)
	c := NewClient(secret, token, 5, nil).WithEndpoint(srv.URL + "/")

	if _, _, err := c.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestFetchInvalidToken(t *testing.T) {
	secret, token := writeCreds(t, testClientSecret, `{}`)
	if _, _, err := NewClient(secret, token, 5, nil).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for empty token file")
	}
}

const testGoogleAuthToken = `{"token":"ya29.live","refresh_token":"1//refresh","token_uri":"https://oauth2.googleapis.com/token","client_id":"cid","client_secret":"csecret","scopes":["https://www.googleapis.com/auth/youtube.readonly"],"expiry":"2099-01-01T00:00:00.123456Z"}`

func TestLoadTokenGoogleAuthFormat(t *testing.T) {
	_, path := writeCreds(t, "", testGoogleAuthToken)

	tok, err := loadToken(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "ya29.live" || tok.RefreshToken != "1//refresh" {
		t.Fatalf("unexpected token %+v", tok)
	}
	if tok.Expiry.Year() != 2099 || !tok.Valid() {
		t.Fatalf("expected future expiry, got %v", tok.Expiry)
	}
}

func TestLoadTokenExpiryWithoutZone(t *testing.T) {
	_, path := writeCreds(t, "", `{"token":"ya29.x","refresh_token":"r","expiry":"2099-03-04T05:06:07.890123"}`)

	tok, err := loadToken(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Expiry.Month() != time.March || tok.Expiry.Location() != time.UTC {
		t.Fatalf("unexpected expiry %v", tok.Expiry)
	}
}

func TestLoadTokenWithoutExpiryForcesRefresh(t *testing.T) {
	_, path := writeCreds(t, "", `{"token":"stale","refresh_token":"r"}`)

	tok, err := loadToken(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Valid() {
		t.Fatalf("expected token to need a refresh, expiry %v", tok.Expiry)
	}
}

func TestFetchWithGoogleAuthTokenFile(t *testing.T) {
	var (
		mu      sync.Mutex
		gotAuth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		fmt.Fprint(w, `{"items":[{"snippet":{"title":"Any"}}]}`)
	}))
	defer srv.Close()

	secret, token := writeCreds(t, testClientSecret, testGoogleAuthToken)
	likes, _, err := NewClient(secret, token, 5, nil).WithEndpoint(srv.URL + "/").Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(likes) != 1 {
		t.Fatalf("unexpected likes %v", likes)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer ya29.live" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestSaveTokenConcurrentReaders(t *testing.T) {
	_, path := writeCreds(t, "", testToken)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tok := &oauth2.Token{AccessToken: fmt.Sprintf("access-%d-%s", i, strings.Repeat("x", 4096)), Expiry: time.Now().Add(time.Hour)}
			if err := saveToken(path, tok); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := loadToken(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent save/load failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".token-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
