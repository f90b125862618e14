package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glitchgg/glitch/cmd/cli/config"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in["userName"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "All fields are required"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "User created successfully"})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "Password1!" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Login successful", "token": "fake-token"})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginCmd_StoresToken(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("GLITCH_API_URL", srv.URL)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := loginCmd()
	cmd.SetArgs([]string{"--username", "neo", "--password", "Password1!"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	tok, err := config.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok != "fake-token" {
		t.Errorf("token: got %q, want fake-token", tok)
	}
}

func TestLoginCmd_BadCredentials(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("GLITCH_API_URL", srv.URL)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := loginCmd()
	cmd.SetArgs([]string{"--username", "neo", "--password", "wrong"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for bad credentials")
	}
}

func TestLoginCmd_MissingFlags(t *testing.T) {
	cmd := loginCmd()
	cmd.SetArgs([]string{"--username", "neo"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestSignupCmd(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("GLITCH_API_URL", srv.URL)

	cmd := signupCmd()
	cmd.SetArgs([]string{"--username", "neo", "--email", "neo@glitch.io", "--password", "Password1!"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func TestLogoutCmd_ClearsToken(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("GLITCH_API_URL", srv.URL)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := config.SaveToken("stale"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	cmd := logoutCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := config.LoadToken(); err == nil {
		t.Error("token still stored after logout")
	}
}
