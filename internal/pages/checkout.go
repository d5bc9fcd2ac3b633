package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// CheckoutPage drives the two checkout steps and the order confirmation.
type CheckoutPage struct {
	page playwright.Page
}

func NewCheckoutPage(page playwright.Page) *CheckoutPage {
	return &CheckoutPage{page: page}
}

// FillInfo completes the customer information step and continues to the
// order overview.
func (p *CheckoutPage) FillInfo(firstName, lastName, postalCode string) error {
	fields := []struct {
		selector string
		value    string
	}{
		{"#first-name", firstName},
		{"#last-name", lastName},
		{"#postal-code", postalCode},
	}
	for _, f := range fields {
		if err := p.page.Locator(f.selector).Fill(f.value); err != nil {
			return fmt.Errorf("could not fill %s: %w", f.selector, err)
		}
	}
	if err := p.page.Locator("#continue").Click(); err != nil {
		return fmt.Errorf("could not continue checkout: %w", err)
	}
	return nil
}

// ErrorText returns the visible form error, or "" when there is none.
func (p *CheckoutPage) ErrorText() (string, error) {
	banner := p.page.Locator("[data-test='error']")
	count, err := banner.Count()
	if err != nil {
		return "", fmt.Errorf("could not query checkout error: %w", err)
	}
	if count == 0 {
		return "", nil
	}
	text, err := banner.TextContent()
	if err != nil {
		return "", fmt.Errorf("could not read checkout error: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ItemTotal reads the pre-tax total from the order overview.
func (p *CheckoutPage) ItemTotal() (float64, error) {
	return p.moneyLabel(".summary_subtotal_label")
}

// Tax reads the tax line from the order overview.
func (p *CheckoutPage) Tax() (float64, error) {
	return p.moneyLabel(".summary_tax_label")
}

// Total reads the grand total from the order overview.
func (p *CheckoutPage) Total() (float64, error) {
	return p.moneyLabel(".summary_total_label")
}

func (p *CheckoutPage) moneyLabel(selector string) (float64, error) {
	text, err := p.page.Locator(selector).TextContent()
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", selector, err)
	}
	return parseMoney(text)
}

// Finish places the order.
func (p *CheckoutPage) Finish() error {
	if err := p.page.Locator("#finish").Click(); err != nil {
		return fmt.Errorf("could not finish checkout: %w", err)
	}
	return nil
}

// ConfirmationHeader returns the order confirmation headline.
func (p *CheckoutPage) ConfirmationHeader() (string, error) {
	text, err := p.page.Locator(".complete-header").TextContent()
	if err != nil {
		return "", fmt.Errorf("could not read confirmation: %w", err)
	}
	return strings.TrimSpace(text), nil
}
