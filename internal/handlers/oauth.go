package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/models"
	"github.com/HardcoreSInd/ReazComu/internal/utils"
)

// GoogleLogin redirects the browser to Google's consent screen.
func GoogleLogin(c *fiber.Ctx) error {
	if Cfg.GoogleClientID == "" || Cfg.GoogleCallbackURL == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Google OAuth not configured",
		})
	}

	// State token for CSRF protection, verified on the way back
	state := generateStateToken()
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   300,
	})

	oauthURL := fmt.Sprintf(
		"https://accounts.google.com/o/oauth2/v2/auth?client_id=%s&redirect_uri=%s&response_type=code&scope=openid email profile&state=%s",
		Cfg.GoogleClientID,
		Cfg.GoogleCallbackURL,
		state,
	)

	return c.Redirect(oauthURL)
}

// GoogleOAuthCallback finishes the login: verifies state, exchanges the
// code, fetches the profile, and plants the session cookie.
func GoogleOAuthCallback(c *fiber.Ctx) error {
	cookieState := c.Cookies("oauth_state")
	queryState := c.Query("state")

	if cookieState == "" || cookieState != queryState {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid state parameter",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Authorization code not found",
		})
	}

	tokenData, err := exchangeCodeForToken(code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to exchange code for token",
		})
	}

	googleUser, err := getGoogleUserInfo(tokenData.AccessToken)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get user info",
		})
	}

	user := models.User{
		ID:     googleUser.Sub,
		Name:   googleUser.Name,
		Email:  googleUser.Email,
		Avatar: googleUser.Picture,
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   86400, // 1 day, same as the session lifetime
	})

	if Cfg.FrontendURL != "" {
		return c.Redirect(Cfg.FrontendURL)
	}
	return c.Redirect("/")
}

// Logout clears the session cookie and sends the browser home.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})
	return c.Redirect("/")
}

// TokenResponse represents Google's OAuth token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GoogleUser represents the userinfo payload from Google.
type GoogleUser struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func exchangeCodeForToken(code string) (*TokenResponse, error) {
	tokenURL := "https://oauth2.googleapis.com/token"

	data := fmt.Sprintf(
		"code=%s&client_id=%s&client_secret=%s&redirect_uri=%s&grant_type=authorization_code",
		code, Cfg.GoogleClientID, Cfg.GoogleClientSecret, Cfg.GoogleCallbackURL,
	)

	resp, err := http.Post(tokenURL, "application/x-www-form-urlencoded", strings.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get token, status: %d", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

func getGoogleUserInfo(accessToken string) (*GoogleUser, error) {
	userInfoURL := "https://www.googleapis.com/oauth2/v3/userinfo"

	req, err := http.NewRequest("GET", userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info, status: %d, body: %s", resp.StatusCode, string(body))
	}

	var googleUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, err
	}

	return &googleUser, nil
}

func generateStateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
