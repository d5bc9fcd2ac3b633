package e2e

import (
	"testing"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/harness"
	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/pages"
)

func TestCheckoutCompletesOrder(t *testing.T) {
	fixture := loadCatalog(t)
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		items := []string{fixture.Products[0].Name, fixture.Products[1].Name}
		expectedSubtotal := 0.0
		for _, name := range items {
			s.Require().NoError(inventory.AddToCart(name))
			expectedSubtotal += fixture.priceOf(t, name)
		}
		s.Require().NoError(inventory.OpenCart())

		cart := pages.NewCartPage(s.Page())
		s.Require().NoError(cart.Checkout())

		checkout := pages.NewCheckoutPage(s.Page())
		s.Require().NoError(checkout.FillInfo("Ada", "Lovelace", "10117"))

		subtotal, err := checkout.ItemTotal()
		s.Require().NoError(err)
		s.Assert().InDelta(expectedSubtotal, subtotal, 0.001)

		tax, err := checkout.Tax()
		s.Require().NoError(err)
		total, err := checkout.Total()
		s.Require().NoError(err)
		s.Assert().InDelta(subtotal+tax, total, 0.001, "grand total should be subtotal plus tax")

		s.Require().NoError(checkout.Finish())
		header, err := checkout.ConfirmationHeader()
		s.Require().NoError(err)
		s.Assert().Contains(header, fixture.Messages.OrderComplete)
	})
}

func TestCheckoutRequiresCustomerInfo(t *testing.T) {
	fixture := loadCatalog(t)
	harness.Current().Test(t, func(s *harness.Session) {
		inventory := loginAsStandardUser(s)
		s.Require().NoError(inventory.AddToCart(fixture.Products[0].Name))
		s.Require().NoError(inventory.OpenCart())

		cart := pages.NewCartPage(s.Page())
		s.Require().NoError(cart.Checkout())

		checkout := pages.NewCheckoutPage(s.Page())
		s.Require().NoError(checkout.FillInfo("", "", ""))

		msg, err := checkout.ErrorText()
		s.Require().NoError(err)
		s.Assert().Contains(msg, fixture.Messages.FirstNameRequired)
	})
}

func TestCheckoutEmptyCartStillNavigates(t *testing.T) {
	harness.Current().Test(t, func(s *harness.Session) {
		loginAsStandardUser(s)
		s.Goto("/cart.html")

		cart := pages.NewCartPage(s.Page())
		count, err := cart.ItemCount()
		s.Require().NoError(err)
		s.Assert().Zero(count, "fresh session should have an empty cart")
	})
}
