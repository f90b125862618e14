package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/glitchgg/glitch/cmd/cli/config"
	"github.com/glitchgg/glitch/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

// signupCmd creates a new account.
func signupCmd() *cobra.Command {
	var userName, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Glitch account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userName == "" || email == "" || password == "" {
				return fmt.Errorf("username, email and password are required")
			}

			var out struct {
				Message string `json:"message"`
			}
			err := callJSONEndpoint(http.DefaultClient, "/api/auth/signup", map[string]string{
				"userName": userName,
				"email":    email,
				"password": password,
			}, &out)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			fmt.Println(out.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new account")

	return cmd
}

// loginCmd logs in and stores the session token locally.
func loginCmd() *cobra.Command {
	var userName, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Glitch API",
		Long:  "Authenticate with the Glitch API and store a session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userName == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			var loginResp struct {
				Token string `json:"token"`
			}
			err := callJSONEndpoint(http.DefaultClient, "/api/auth/login", map[string]string{
				"userName": userName,
				"password": password,
			}, &loginResp)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password to authenticate with")

	return cmd
}

// logoutCmd clears the stored token and tells the API to expire the cookie.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort: the API logout only clears its cookie, the stored
			// token stays valid until expiry either way.
			_ = callJSONEndpoint(http.DefaultClient, "/api/auth/logout", map[string]string{}, nil)

			if err := config.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// whoamiCmd shows the profile of the logged-in user.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := config.LoadToken()
			if err != nil {
				return err
			}

			req, err := http.NewRequest("GET", config.APIURL()+"/api/auth/me", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+tok)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return apiError(resp)
			}

			var out struct {
				User struct {
					UserName  string `json:"userName"`
					Email     string `json:"email"`
					Followers int    `json:"followers"`
					Following int    `json:"following"`
				} `json:"user"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}

			output.RenderTable(
				[]string{"Username", "Email", "Followers", "Following"},
				[][]interface{}{{out.User.UserName, out.User.Email, out.User.Followers, out.User.Following}},
			)
			return nil
		},
	}
}

func callJSONEndpoint(client *http.Client, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// apiError extracts the API's message field for a readable CLI error.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
		return fmt.Errorf("%s (status %d)", msg.Message, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
}
