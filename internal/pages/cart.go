package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// CartPage drives the cart review screen at /cart.html.
type CartPage struct {
	page playwright.Page
}

func NewCartPage(page playwright.Page) *CartPage {
	return &CartPage{page: page}
}

// ItemNames returns the names of the products in the cart.
func (p *CartPage) ItemNames() ([]string, error) {
	names, err := p.page.Locator(".cart_item .inventory_item_name").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("could not read cart items: %w", err)
	}
	return names, nil
}

// ItemCount returns the number of cart rows.
func (p *CartPage) ItemCount() (int, error) {
	count, err := p.page.Locator(".cart_item").Count()
	if err != nil {
		return 0, fmt.Errorf("could not count cart items: %w", err)
	}
	return count, nil
}

// Remove takes the named product out of the cart.
func (p *CartPage) Remove(name string) error {
	sel := fmt.Sprintf("#remove-%s", slug(name))
	if err := p.page.Locator(sel).Click(); err != nil {
		return fmt.Errorf("could not remove %q: %w", name, err)
	}
	return nil
}

// Checkout proceeds to the checkout information form.
func (p *CartPage) Checkout() error {
	if err := p.page.Locator("#checkout").Click(); err != nil {
		return fmt.Errorf("could not start checkout: %w", err)
	}
	return nil
}

// ContinueShopping returns to the inventory listing.
func (p *CartPage) ContinueShopping() error {
	if err := p.page.Locator("#continue-shopping").Click(); err != nil {
		return fmt.Errorf("could not leave cart: %w", err)
	}
	return nil
}
