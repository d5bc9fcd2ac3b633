package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// LoginPage drives the credential form at /.
type LoginPage struct {
	page playwright.Page
}

func NewLoginPage(page playwright.Page) *LoginPage {
	return &LoginPage{page: page}
}

// Login submits the credential form.
func (p *LoginPage) Login(username, password string) error {
	user := p.page.Locator("#user-name")
	if err := user.WaitFor(); err != nil {
		return fmt.Errorf("login form did not appear: %w", err)
	}
	if err := user.Fill(username); err != nil {
		return fmt.Errorf("could not fill username: %w", err)
	}
	if err := p.page.Locator("#password").Fill(password); err != nil {
		return fmt.Errorf("could not fill password: %w", err)
	}
	if err := p.page.Locator("#login-button").Click(); err != nil {
		return fmt.Errorf("could not submit login: %w", err)
	}
	return nil
}

// ErrorText returns the visible login error, or "" when there is none.
func (p *LoginPage) ErrorText() (string, error) {
	banner := p.page.Locator("[data-test='error']")
	count, err := banner.Count()
	if err != nil {
		return "", fmt.Errorf("could not query error banner: %w", err)
	}
	if count == 0 {
		return "", nil
	}
	text, err := banner.TextContent()
	if err != nil {
		return "", fmt.Errorf("could not read error banner: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// LoggedIn reports whether the session landed on the inventory screen.
func (p *LoginPage) LoggedIn() bool {
	return strings.Contains(p.page.URL(), "/inventory.html")
}
