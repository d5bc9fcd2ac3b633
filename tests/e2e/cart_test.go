package e2e

import (
	"testing"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/harness"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/pages"
)

func TestCartShowsAddedItems(t *testing.T) {
	fixture := loadCatalog(t)
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		wanted := []string{fixture.Products[0].Name, fixture.Products[2].Name}
		for _, name := range wanted {
			s.Require().NoError(inventory.AddToCart(name))
		}
		s.Require().NoError(inventory.OpenCart())

		cart := pages.NewCartPage(s.Page())
		names, err := cart.ItemNames()
		s.Require().NoError(err)
		s.Assert().ElementsMatch(wanted, names)
	})
}

func TestCartRemoveItem(t *testing.T) {
	fixture := loadCatalog(t)
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		keep := fixture.Products[0].Name
		drop := fixture.Products[1].Name
		s.Require().NoError(inventory.AddToCart(keep))
		s.Require().NoError(inventory.AddToCart(drop))
		s.Require().NoError(inventory.OpenCart())

		cart := pages.NewCartPage(s.Page())
		s.Require().NoError(cart.Remove(drop))

		names, err := cart.ItemNames()
		s.Require().NoError(err)
		s.Assert().Equal([]string{keep}, names)
	})
}

func TestCartSurvivesReload(t *testing.T) {
	fixture := loadCatalog(t)
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		name := fixture.Products[0].Name
		s.Require().NoError(inventory.AddToCart(name))
		s.Require().NoError(inventory.OpenCart())

		_, err := s.Page().Reload()
		s.Require().NoError(err)

		cart := pages.NewCartPage(s.Page())
		names, err := cart.ItemNames()
		s.Require().NoError(err)
		s.Assert().Equal([]string{name}, names, "cart contents should survive a reload")
	})
}

func TestCartContinueShoppingReturnsToListing(t *testing.T) {
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		s.Require().NoError(inventory.OpenCart())

		cart := pages.NewCartPage(s.Page())
		s.Require().NoError(cart.ContinueShopping())
		s.Require().NoError(inventory.WaitForProducts())
		s.Assert().Contains(s.Page().URL(), "/inventory.html")
	})
}
