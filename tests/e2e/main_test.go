package e2e

import (
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/harness"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/pages"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("skipping browser suite in short mode")
		os.Exit(0)
	}
	harness.Main(m)
}

// loginAsStandardUser signs in with the configured demo account and
// waits for the product listing to render.
func loginAsStandardUser(s *harness.Session) *pages.InventoryPage {
	s.Goto("/")
	login := pages.NewLoginPage(s.Page())
	s.Require().NoError(login.Login(s.Config().StandardUser, s.Config().Password))
	inventory := pages.NewInventoryPage(s.Page())
	s.Require().NoError(inventory.WaitForProducts())
	return inventory
}
