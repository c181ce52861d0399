// Package browser opens clip pages in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Starter launches a command without waiting for it.
type Starter func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated before reaching here
}

// Opener opens URLs with the platform's browser launcher.
type Opener struct {
	goos  string
	start Starter
}

// NewOpener returns an Opener for the running platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

// Open validates the URL and hands it to the system browser.
func (o *Opener) Open(urlString string) error {
	if _, err := Validate(urlString); err != nil {
		return err
	}

	switch o.goos {
	case "linux", "freebsd", "openbsd":
		return o.start("xdg-open", urlString)
	case "darwin":
		return o.start("open", urlString)
	case "windows":
		return o.start("rundll32", "url.dll,FileProtocolHandler", urlString)
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

// OpenClip opens a clip page. Only Twitch hosts are accepted.
func (o *Opener) OpenClip(clipURL string) error {
	parsed, err := Validate(clipURL)
	if err != nil {
		return err
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "twitch.tv" && !strings.HasSuffix(host, ".twitch.tv") {
		return fmt.Errorf("not a twitch clip URL: %s", clipURL)
	}
	return o.Open(clipURL)
}

// Open opens the specified URL in the default browser.
func Open(urlString string) error {
	return NewOpener().Open(urlString)
}

// Validate parses urlString and accepts only absolute http and https URLs,
// so nothing else ever reaches the launcher command line.
func Validate(urlString string) (*url.URL, error) {
	parsed, err := url.Parse(urlString)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}
	return parsed, nil
}
