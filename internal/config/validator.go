package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration and returns one error
// naming every hard problem found. Soft problems are logged as
// warnings and do not fail validation.
func (c *Config) Validate() error {
	var errs []string

	if c.BaseURL == "" {
		errs = append(errs, "base_url must not be empty")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("base_url %q is not an absolute URL", c.BaseURL))
	}

	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.NavTimeout <= 0 {
		errs = append(errs, "nav_timeout must be positive")
	}
	if c.Retries < 0 {
		errs = append(errs, "retries must not be negative")
	}
	if c.RetryDelay < 0 {
		errs = append(errs, "retry_delay must not be negative")
	}
	if c.SlowMo < 0 {
		errs = append(errs, "slow_mo must not be negative")
	}

	switch c.TraceMode {
	case TraceOff, TraceOn, TraceRetainOnFailure:
	default:
		errs = append(errs, fmt.Sprintf("trace must be one of off, on, retain-on-failure (got %q)", c.TraceMode))
	}

	switch c.CaptureLogs {
	case CaptureOnFailure, CaptureAlways:
	default:
		errs = append(errs, fmt.Sprintf("capture_logs must be one of on-failure, always (got %q)", c.CaptureLogs))
	}

	if c.OutputDir == "" {
		errs = append(errs, "output_dir must not be empty")
	}

	if c.Retries > 5 {
		logger.Printf("warning: retries=%d is unusually high; flaky tests will be slow to fail", c.Retries)
	}
	if !c.Headless && c.Videos {
		logger.Printf("warning: video recording in headed mode can slow tests down noticeably")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid e2e config: %s", strings.Join(errs, "; "))
	}
	return nil
}
