// Path: internal/browser/rod.go
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/time/rate"

	"price-hunter/internal/config"
)

// userAgents is the pool a session's user agent is drawn from.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

const (
	sessionLocale   = "es-MX"
	sessionTimezone = "America/Mexico_City"
)

// RodDriver drives a shared headless Chromium instance through go-rod.
// Navigations are paced by a process-wide rate limiter so a burst of
// sessions does not hammer the storefronts.
type RodDriver struct {
	browser    *rod.Browser
	limiter    *rate.Limiter
	logger     *slog.Logger
	navTimeout time.Duration
}

// NewRodDriver launches the browser and connects to it.
func NewRodDriver(cfg config.BrowserConfig, logger *slog.Logger) (*RodDriver, error) {
	bin := cfg.BinPath
	if bin == "" {
		logger.Info("no browser binary specified, downloading default...")
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("download browser: %w", err)
		}
		bin = path
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Bin(bin).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled")

	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger.Info("browser started", slog.String("bin", bin))
	return &RodDriver{
		browser:    b,
		limiter:    rate.NewLimiter(rate.Limit(cfg.NavigationsPerSecond), cfg.NavigationBurst),
		logger:     logger,
		navTimeout: time.Duration(cfg.NavigationTimeoutSecs) * time.Second,
	}, nil
}

// NewSession opens a stealth page with a randomized user agent, the fixed
// locale/timezone, and a hijack route aborting image/media/font requests.
func (d *RodDriver) NewSession(ctx context.Context) (Session, error) {
	page, err := stealth.Page(d.browser)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx)

	ua := userAgents[rand.Intn(len(userAgents))]
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1920, Height: 1080, DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: sessionLocale}).Call(page); err != nil {
		d.logger.Warn("locale override failed", slog.String("error", err.Error()))
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: sessionTimezone}).Call(page); err != nil {
		d.logger.Warn("timezone override failed", slog.String("error", err.Error()))
	}

	router := page.HijackRequests()
	err = router.Add("*", "", func(h *rod.Hijack) {
		switch h.Request.Type() {
		case proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia, proto.NetworkResourceTypeFont:
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		default:
			h.ContinueRequest(&proto.FetchContinueRequest{})
		}
	})
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("install request filter: %w", err)
	}
	go router.Run()

	return &rodSession{
		page:       page,
		router:     router,
		limiter:    d.limiter,
		navTimeout: d.navTimeout,
	}, nil
}

// Close tears down the shared browser instance.
func (d *RodDriver) Close() error {
	return d.browser.Close()
}

type rodSession struct {
	page       *rod.Page
	router     *rod.HijackRouter
	limiter    *rate.Limiter
	navTimeout time.Duration
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	p := s.page.Timeout(s.navTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitDOMStable(500*time.Millisecond, 0.2); err != nil {
		return fmt.Errorf("wait for page: %w", err)
	}
	return nil
}

func (s *rodSession) Count(selector string) (int, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (s *rodSession) Elements(selector string, limit int) ([]Element, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(els) > limit {
		els = els[:limit]
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (s *rodSession) Visible(selector string) (bool, error) {
	els, err := s.page.Elements(selector)
	if err != nil || len(els) == 0 {
		return false, err
	}
	return els.First().Visible()
}

func (s *rodSession) Close() error {
	_ = s.router.Stop()
	return s.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text(selector string) (string, error) {
	els, err := e.el.Elements(selector)
	if err != nil || len(els) == 0 {
		return "", err
	}
	return els.First().Text()
}

func (e *rodElement) Attribute(selector, name string) (string, error) {
	els, err := e.el.Elements(selector)
	if err != nil || len(els) == 0 {
		return "", err
	}
	v, err := els.First().Attribute(name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}
