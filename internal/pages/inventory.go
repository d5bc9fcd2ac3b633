package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// InventoryPage drives the product listing at /inventory.html.
type InventoryPage struct {
	page playwright.Page
}

func NewInventoryPage(page playwright.Page) *InventoryPage {
	return &InventoryPage{page: page}
}

// WaitForProducts blocks until the listing has rendered at least one
// product card.
func (p *InventoryPage) WaitForProducts() error {
	if err := p.page.Locator(".inventory_item").First().WaitFor(); err != nil {
		return fmt.Errorf("product listing did not render: %w", err)
	}
	return nil
}

// ItemCount returns the number of product cards on the listing.
func (p *InventoryPage) ItemCount() (int, error) {
	count, err := p.page.Locator(".inventory_item").Count()
	if err != nil {
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}

// ItemNames returns the product names in display order.
func (p *InventoryPage) ItemNames() ([]string, error) {
	names, err := p.page.Locator(".inventory_item_name").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("could not read product names: %w", err)
	}
	return names, nil
}

// Prices returns the listed prices in display order.
func (p *InventoryPage) Prices() ([]float64, error) {
	labels, err := p.page.Locator(".inventory_item_price").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("could not read prices: %w", err)
	}
	prices := make([]float64, 0, len(labels))
	for _, label := range labels {
		amount, err := parseMoney(label)
		if err != nil {
			return nil, err
		}
		prices = append(prices, amount)
	}
	return prices, nil
}

// SortBy selects a sort option by its value, e.g. "lohi" or "za".
func (p *InventoryPage) SortBy(value string) error {
	_, err := p.page.Locator(".product_sort_container").SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice(value),
	})
	if err != nil {
		return fmt.Errorf("could not sort by %s: %w", value, err)
	}
	return nil
}

// AddToCart clicks the add button on the named product's card.
func (p *InventoryPage) AddToCart(name string) error {
	sel := fmt.Sprintf("#add-to-cart-%s", slug(name))
	if err := p.page.Locator(sel).Click(); err != nil {
		return fmt.Errorf("could not add %q to cart: %w", name, err)
	}
	return nil
}

// RemoveFromCart clicks the remove button on the named product's card.
func (p *InventoryPage) RemoveFromCart(name string) error {
	sel := fmt.Sprintf("#remove-%s", slug(name))
	if err := p.page.Locator(sel).Click(); err != nil {
		return fmt.Errorf("could not remove %q from cart: %w", name, err)
	}
	return nil
}

// CartBadge returns the cart item count shown in the header, 0 when the
// badge is absent.
func (p *InventoryPage) CartBadge() (int, error) {
	badge := p.page.Locator(".shopping_cart_badge")
	count, err := badge.Count()
	if err != nil {
		return 0, fmt.Errorf("could not query cart badge: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	text, err := badge.TextContent()
	if err != nil {
		return 0, fmt.Errorf("could not read cart badge: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("cart badge is not a number: %w", err)
	}
	return n, nil
}

// OpenCart navigates to the cart via the header icon.
func (p *InventoryPage) OpenCart() error {
	if err := p.page.Locator(".shopping_cart_link").Click(); err != nil {
		return fmt.Errorf("could not open cart: %w", err)
	}
	return nil
}
