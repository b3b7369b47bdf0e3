package trade

import (
	"fmt"
	"os/exec"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// Opener hands a finished search over to the user's browser. Result tabs
// must not steal focus from the page the user is reading.
type Opener interface {
	Open(url string) error
}

// BrowserOpener shells out to the desktop's URL handler.
type BrowserOpener struct {
	log *logger.Logger
}

// NewBrowserOpener creates an opener using xdg-open.
func NewBrowserOpener(log *logger.Logger) *BrowserOpener {
	return &BrowserOpener{log: log}
}

// Open launches the URL without waiting for the browser to exit.
func (o *BrowserOpener) Open(url string) error {
	cmd := exec.Command("xdg-open", url)
	if err := cmd.Start(); err != nil {
		o.log.Error("Failed to open URL in browser", err, "url", url)
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	// Reap the child in the background.
	go func() { _ = cmd.Wait() }()

	o.log.Debug("Opened trade URL", "url", url)
	return nil
}

// NopOpener discards URLs; used when the caller only wants the search
// ids, and in tests.
type NopOpener struct{}

func (NopOpener) Open(string) error { return nil }
