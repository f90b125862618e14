package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	cookieName  = "glitch_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "GLITCH_WEB_PORT"
	envAPIURL   = "GLITCH_API_URL"
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/signup", signupForm)
	r.Post("/signup", signupSubmit(apiBase))
	r.Get("/login", loginForm)
	r.Post("/login", loginSubmit(apiBase))
	r.Get("/logout", logout(apiBase))

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", home(apiBase))
	})

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requireAuth redirects to /login when the token cookie is missing. Token
// validity is checked by the API on the profile call; home handles the 401.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := r.Cookie(cookieName)
		if err != nil || token.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func signupForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "signup.html", nil)
}

func signupSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		userName := strings.TrimSpace(r.FormValue("userName"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if userName == "" || email == "" || password == "" {
			renderTemplate(w, "signup.html", map[string]string{"Error": "All fields are required"})
			return
		}

		body, _ := json.Marshal(map[string]string{
			"userName": userName, "email": email, "password": password,
		})
		data, status, err := apiPost(apiBase, "/api/auth/signup", body)
		if err != nil {
			renderTemplate(w, "signup.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusCreated {
			renderTemplate(w, "signup.html", map[string]string{"Error": apiMessage(data)})
			return
		}

		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(cookieName); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", nil)
}

func loginSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		userName := strings.TrimSpace(r.FormValue("userName"))
		password := r.FormValue("password")
		if userName == "" || password == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "All fields are required"})
			return
		}

		body, _ := json.Marshal(map[string]string{"userName": userName, "password": password})
		data, status, err := apiPost(apiBase, "/api/auth/login", body)
		if err != nil {
			renderTemplate(w, "login.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "login.html", map[string]string{"Error": apiMessage(data)})
			return
		}

		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &out); err != nil || out.Token == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Invalid login response"})
			return
		}

		// The web UI keeps its own cookie; the API cookie lives on the API origin.
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    out.Token,
			Path:     "/",
			MaxAge:   10 * 24 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func logout(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Tell the API too, so its own cookie gets expired when shared origin.
		_, _, _ = apiPost(apiBase, "/api/auth/logout", nil)
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func home(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := r.Cookie(cookieName)
		data, status, err := apiGet(apiBase, "/api/auth/me", token.Value)
		if err != nil {
			http.Error(w, "cannot reach API: "+err.Error(), http.StatusBadGateway)
			return
		}
		if status == http.StatusUnauthorized {
			// Expired or invalid token: clear and sign in again.
			http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if status != http.StatusOK {
			http.Error(w, apiMessage(data), status)
			return
		}

		var out struct {
			User struct {
				UserName  string `json:"userName"`
				Email     string `json:"email"`
				Followers int    `json:"followers"`
				Following int    `json:"following"`
			} `json:"user"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			http.Error(w, "invalid profile response", http.StatusBadGateway)
			return
		}
		renderTemplate(w, "home.html", out.User)
	}
}

// apiGet performs GET to API with Bearer token.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// apiPost performs POST to API with JSON body.
func apiPost(apiBase, path string, body []byte) ([]byte, int, error) {
	req, _ := http.NewRequest("POST", apiBase+path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// apiMessage pulls the message field out of an API error body.
func apiMessage(data []byte) string {
	var out struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &out) == nil && out.Message != "" {
		return out.Message
	}
	return string(data)
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if data == nil {
		data = map[string]string{}
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		http.Error(w, fmt.Sprintf("template %s: %v", name, err), http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}
