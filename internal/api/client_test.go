package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/packetapp/packet-go/internal/models"
	"github.com/packetapp/packet-go/internal/session"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func loginBody(access, refresh string) LoginResponse {
	return LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         models.User{ID: 42, Name: "Alice", Email: "alice@example.com", Role: "standard"},
	}
}

func TestLoginSavesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode login request: %v", err)
		}
		if req.Email != "alice@example.com" || req.Password != "hunter22" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		writeJSON(t, w, http.StatusOK, loginBody("access-1", "refresh-1"))
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	client := NewClient(server.URL, nil, store)

	user, err := client.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != 42 || user.Name != "Alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	if got, _ := store.AccessToken(); got != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", got)
	}
	if got, _ := store.RefreshToken(); got != "refresh-1" {
		t.Errorf("RefreshToken = %q, want refresh-1", got)
	}
	if got, _ := store.UserID(); got != 42 {
		t.Errorf("UserID = %d, want 42", got)
	}
	if !store.LoggedIn() {
		t.Error("LoggedIn = false after login")
	}
}

func TestLoginBadCredentialsSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "wrong email or password"})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	client := NewClient(server.URL, nil, store)

	_, err := client.Login(context.Background(), "alice@example.com", "nope")
	if err == nil {
		t.Fatal("expected login error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Message != "wrong email or password" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	// A failed login is not a token failure.
	if errors.Is(err, ErrTokenInvalid) {
		t.Error("login 401 must not map to ErrTokenInvalid")
	}
	if store.LoggedIn() {
		t.Error("store populated after failed login")
	}
}

func TestRegisterConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{"error": "email already registered"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, session.NewMemoryStore())

	_, err := client.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "email already registered" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestErrorMappingFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "message field",
			status:      http.StatusNotFound,
			body:        `{"message":"no such user"}`,
			wantMessage: "no such user",
		},
		{
			name:        "error field preferred",
			status:      http.StatusBadRequest,
			body:        `{"error":"bad invite code","message":"ignored"}`,
			wantMessage: "bad invite code",
		},
		{
			name:        "unparsable body falls back",
			status:      http.StatusBadRequest,
			body:        "not json",
			wantMessage: "request rejected: 400",
		},
		{
			name:        "unexpected status is generic",
			status:      http.StatusServiceUnavailable,
			body:        `{"error":"down"}`,
			wantMessage: "server error: 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			store := session.NewMemoryStore()
			store.Save("tok", "ref", 1, "", "")
			client := NewClient(server.URL, nil, store)

			_, err := client.Profile(context.Background())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

// refreshTestServer accepts "good" as access token, rejects anything else,
// and exchanges "refresh-1" for the good pair.
func refreshTestServer(t *testing.T, summaryCalls, refreshCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups/summaries":
			summaryCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer good" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token invalid"})
				return
			}
			writeJSON(t, w, http.StatusOK, []models.GroupSummary{{GroupID: 1, GroupName: "Flat"}})
		case "/users/refresh-token":
			refreshCalls.Add(1)
			var req struct {
				RefreshToken string `json:"refreshToken"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.RefreshToken != "refresh-1" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
				return
			}
			writeJSON(t, w, http.StatusOK, loginBody("good", "refresh-2"))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRefreshOn401RetriesOnce(t *testing.T) {
	var summaryCalls, refreshCalls atomic.Int32
	server := refreshTestServer(t, &summaryCalls, &refreshCalls)
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("stale", "refresh-1", 42, "Alice", "alice@example.com")
	client := NewClient(server.URL, nil, store)

	summaries, err := client.GroupSummaries(context.Background())
	if err != nil {
		t.Fatalf("GroupSummaries failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].GroupName != "Flat" {
		t.Errorf("unexpected summaries: %+v", summaries)
	}

	if got := summaryCalls.Load(); got != 2 {
		t.Errorf("summary endpoint hit %d times, want 2 (original + retry)", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint hit %d times, want 1", got)
	}

	// The refreshed pair must be persisted.
	if got, _ := store.AccessToken(); got != "good" {
		t.Errorf("AccessToken = %q, want good", got)
	}
	if got, _ := store.RefreshToken(); got != "refresh-2" {
		t.Errorf("RefreshToken = %q, want refresh-2", got)
	}
}

// jwtExpiringAt builds a signed JWT whose exp claim is the given time. The
// signature key is irrelevant: the client inspects claims without verifying.
func jwtExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign test JWT: %v", err)
	}
	return token
}

func TestExpiredJWTRefreshedBeforeRequest(t *testing.T) {
	var summaryCalls, refreshCalls atomic.Int32
	server := refreshTestServer(t, &summaryCalls, &refreshCalls)
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save(jwtExpiringAt(t, time.Now().Add(-time.Hour)), "refresh-1", 42, "Alice", "alice@example.com")
	client := NewClient(server.URL, nil, store)

	summaries, err := client.GroupSummaries(context.Background())
	if err != nil {
		t.Fatalf("GroupSummaries failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Errorf("unexpected summaries: %+v", summaries)
	}

	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint hit %d times, want 1", got)
	}
	// A single summaries hit proves the expired token never reached the
	// endpoint: it would have drawn a 401 and a second attempt.
	if got := summaryCalls.Load(); got != 1 {
		t.Errorf("summary endpoint hit %d times, want 1", got)
	}
	if got, _ := store.AccessToken(); got != "good" {
		t.Errorf("AccessToken = %q, want good", got)
	}
}

func TestLiveJWTNotRefreshedUpFront(t *testing.T) {
	var refreshCalls atomic.Int32
	live := jwtExpiringAt(t, time.Now().Add(time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/refresh-token" {
			refreshCalls.Add(1)
			writeJSON(t, w, http.StatusOK, loginBody("good", "refresh-2"))
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+live {
			t.Errorf("unexpected token %q", r.Header.Get("Authorization"))
		}
		writeJSON(t, w, http.StatusOK, []models.GroupSummary{{GroupID: 1, GroupName: "Flat"}})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save(live, "refresh-1", 42, "", "")
	client := NewClient(server.URL, nil, store)

	if _, err := client.GroupSummaries(context.Background()); err != nil {
		t.Fatalf("GroupSummaries failed: %v", err)
	}
	if got := refreshCalls.Load(); got != 0 {
		t.Errorf("refresh endpoint hit %d times, want 0", got)
	}
}

func TestNonAuthErrorDoesNotRefresh(t *testing.T) {
	var refreshCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/refresh-token" {
			refreshCalls.Add(1)
			writeJSON(t, w, http.StatusOK, loginBody("good", "refresh-2"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("tok", "refresh-1", 42, "", "")
	client := NewClient(server.URL, nil, store)

	_, err := client.GroupSummaries(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("error = %v, want server error 500", err)
	}
	if got := refreshCalls.Load(); got != 0 {
		t.Errorf("refresh endpoint hit %d times, want 0", got)
	}
	// Session untouched on non-auth failure.
	if got, _ := store.AccessToken(); got != "tok" {
		t.Errorf("AccessToken = %q, want tok", got)
	}
}

func TestSecond401AfterRefreshPropagates(t *testing.T) {
	var summaryCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups/summaries":
			summaryCalls.Add(1)
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token invalid"})
		case "/users/refresh-token":
			writeJSON(t, w, http.StatusOK, loginBody("still-bad", "refresh-2"))
		}
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("stale", "refresh-1", 42, "", "")
	client := NewClient(server.URL, nil, store)

	_, err := client.GroupSummaries(context.Background())
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("error = %v, want ErrTokenInvalid", err)
	}
	if got := summaryCalls.Load(); got != 2 {
		t.Errorf("summary endpoint hit %d times, want exactly 2", got)
	}
}

func TestFailedRefreshClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/groups/summaries":
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token invalid"})
		case "/users/refresh-token":
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
		}
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("stale", "stale-refresh", 42, "", "")
	client := NewClient(server.URL, nil, store)

	_, err := client.GroupSummaries(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if store.LoggedIn() {
		t.Error("session not cleared after irrecoverable refresh failure")
	}
}

func TestLoggedOutFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, session.NewMemoryStore())

	_, err := client.GroupSummaries(context.Background())
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("error = %v, want ErrNotLoggedIn", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("server hit %d times, want 0", got)
	}
}

func TestGroupActivitiesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups/3/activities" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []models.Activity{
			{ID: 2, GroupID: 3, UserName: "Bob", Type: "BOUGHT", ItemName: "Молоко", Quantity: 1, IsViewed: false},
			{ID: 1, GroupID: 3, UserName: "Alice", Type: "ADDED", ItemName: "Хлеб", Quantity: 2, IsViewed: true},
		})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("tok", "ref", 42, "", "")
	client := NewClient(server.URL, nil, store)

	activities, err := client.GroupActivities(context.Background(), 3)
	if err != nil {
		t.Fatalf("GroupActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}
	if activities[0].Type != "BOUGHT" || activities[0].IsViewed {
		t.Errorf("unexpected first entry: %+v", activities[0])
	}
}

func TestScanReceiptSendsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/receipts/scan" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("Content-Type = %q, want form-encoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		if got := r.PostForm.Get("qrraw"); got != "t=20240101T1200&s=100.00" {
			t.Errorf("qrraw = %q", got)
		}
		writeJSON(t, w, http.StatusOK, models.ScanResult{
			Receipt: models.Receipt{ID: 7},
			Data: models.ReceiptData{
				TotalSum: 100.0,
				Items:    []models.ReceiptItem{{Name: "Молоко 1л", Price: 100, Quantity: 1, Sum: 100}},
			},
		})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	store.Save("tok", "ref", 42, "", "")
	client := NewClient(server.URL, nil, store)

	result, err := client.ScanReceipt(context.Background(), "t=20240101T1200&s=100.00")
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if result.Receipt.ID != 7 || len(result.Data.Items) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBuyItemRequiresUserID(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, session.NewMemoryStore())

	err := client.BuyItem(context.Background(), 1, 2, 300, 1)
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("error = %v, want ErrNotLoggedIn", err)
	}
	if calls.Load() != 0 {
		t.Error("network hit for logged-out buy")
	}
}

func TestLoginThenLogoutEndToEnd(t *testing.T) {
	var summaryCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/login":
			writeJSON(t, w, http.StatusOK, loginBody("access-1", "refresh-1"))
		case "/groups/summaries":
			summaryCalls.Add(1)
			writeJSON(t, w, http.StatusOK, []models.GroupSummary{{GroupID: 1, GroupName: "Flat"}})
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	client := NewClient(server.URL, nil, store)
	ctx := context.Background()

	if _, err := client.Login(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !store.LoggedIn() {
		t.Fatal("store not populated after login")
	}

	if _, err := client.GroupSummaries(ctx); err != nil {
		t.Fatalf("GroupSummaries failed: %v", err)
	}

	if err := client.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if store.LoggedIn() {
		t.Fatal("store still populated after logout")
	}

	before := summaryCalls.Load()
	if _, err := client.GroupSummaries(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("error = %v, want ErrNotLoggedIn", err)
	}
	if summaryCalls.Load() != before {
		t.Error("logged-out call reached the network")
	}
}
