// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/internal/logging"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// Waits applied after navigation. Consent widgets usually appear shortly
// after load, and statement pages are expected to carry headings.
var (
	settleDelay    = 800 * time.Millisecond
	postClickDelay = 1200 * time.Millisecond
	headingWait    = 5 * time.Second
)

const headingSelector = "h1, h2, h3, h4, h5"

// Browser renders pages in headless Chrome. One browser process is shared
// and every Fetch opens its own tab, so Fetch is safe for concurrent use.
type Browser struct {
	cfg    types.HTTPConfig
	logger *zap.Logger

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	startOnce sync.Once
	startErr  error
}

// NewBrowser prepares a headless Chrome allocator. Chrome itself is not
// launched until the first Fetch.
func NewBrowser(cfg types.HTTPConfig, logger *zap.Logger) *Browser {
	cfg = withDefaults(cfg)
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	b := &Browser{
		cfg:         cfg,
		logger:      logging.Or(logger),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
	b.browserCtx, b.browserCancel = chromedp.NewContext(allocCtx,
		chromedp.WithLogf(b.logger.Sugar().Debugf),
		chromedp.WithErrorf(b.logger.Sugar().Debugf),
	)
	return b
}

func (b *Browser) start() error {
	b.startOnce.Do(func() {
		if err := chromedp.Run(b.browserCtx); err != nil {
			b.startErr = fmt.Errorf("starting browser: %w", err)
		}
	})
	return b.startErr
}

// Fetch navigates to url in a new tab, tries to get past cookie banners,
// waits briefly for headings and returns the rendered document.
func (b *Browser) Fetch(ctx context.Context, url string) (string, bool) {
	if err := b.start(); err != nil {
		b.logger.Error("browser unavailable", zap.Error(err))
		return "", false
	}

	tabCtx, closeTab := chromedp.NewContext(b.browserCtx)
	defer closeTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, b.cfg.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var resp *network.Response
	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		b.logger.Warn("navigating", zap.String("url", url), zap.Error(err))
		return "", false
	}
	if resp != nil && resp.Status >= 400 {
		b.logger.Warn("unexpected status", zap.String("url", url), zap.Int64("status", resp.Status))
		return "", false
	}

	var action string
	err = chromedp.Run(tabCtx,
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(dismissBannersJS, &action),
	)
	if err != nil {
		b.logger.Debug("cookie banner handling", zap.String("url", url), zap.Error(err))
	} else if action != "" {
		b.logger.Debug("cookie banner dismissed", zap.String("url", url), zap.String("action", action))
		_ = chromedp.Run(tabCtx, chromedp.Sleep(postClickDelay))
	}

	waitCtx, waitCancel := context.WithTimeout(tabCtx, headingWait)
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(headingSelector, chromedp.ByQuery)); err != nil {
		b.logger.Debug("no headings before timeout", zap.String("url", url))
	}
	waitCancel()

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		b.logger.Warn("reading document", zap.String("url", url), zap.Error(err))
		return "", false
	}
	return html, true
}

// Close shuts down Chrome.
func (b *Browser) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}

// dismissBannersJS tries, in order: known consent-manager buttons,
// accept-style buttons by label, accept radios followed by a save button,
// and finally consent cookies plus hiding overlay elements. It returns a
// short description of what it did, or "" when nothing applied.
const dismissBannersJS = `(() => {
  const visible = el => !!(el && (el.offsetWidth || el.offsetHeight || el.getClientRects().length));
  const clickables = () => Array.from(document.querySelectorAll('button, [role="button"], input[type="button"], input[type="submit"]'));
  const clickLabel = labels => {
    const items = clickables();
    for (const label of labels) {
      for (const el of items) {
        const txt = (el.innerText || el.value || '').trim().toLowerCase();
        if (txt === label && visible(el)) { el.click(); return label; }
      }
    }
    return '';
  };

  const known = [
    '#onetrust-accept-btn-handler', 'button#acceptCookies', 'button#cookie-action-accept',
    '.onetrust-close-btn-handler', '.onetrust-accept-btn-handler', '.cn-accept-cookie',
    '.cc-btn.cc-allow', '.cookie-accept', '.cookies-accept', '.cookie-consent__button',
    '.accept-all', '.js-accept-cookies', '.accept-cookies',
    'button[data-testid="accept"]', 'button[data-consent="accept"]'
  ];
  for (const sel of known) {
    for (const el of document.querySelectorAll(sel)) {
      if (visible(el)) { el.click(); return 'selector ' + sel; }
    }
  }

  const accept = ['accept all', 'accept all cookies', 'accept cookies', 'accept', 'agree', 'i agree',
    'allow all', 'allow cookies', 'yes, i agree', 'got it', 'ok', 'continue'];
  let label = clickLabel(accept);
  if (label) { return 'button ' + label; }

  const radios = Array.from(document.querySelectorAll('input[type="radio"][value*="accept"], input[type="checkbox"][name*="accept"]')).filter(visible);
  if (radios.length) {
    radios.forEach(r => { try { r.click(); } catch (e) {} });
    clickLabel(['save', 'save preferences', 'confirm', 'ok', 'submit']);
    return 'radio';
  }

  document.cookie = 'OptanonConsent=true; path=/; max-age=31536000';
  document.cookie = 'CookieConsent=true; path=/; max-age=31536000';
  try {
    localStorage.setItem('cookieConsent', 'true');
    localStorage.setItem('acceptCookies', 'true');
    sessionStorage.setItem('cookieConsent', 'true');
  } catch (e) {}
  document.dispatchEvent(new Event('cookieconsent:accept'));

  const overlays = ['.cookie-banner', '.cookie-consent', '#onetrust-banner-sdk', '#cookie-consent',
    '.eu-cookie-compliance', '.cc-window', '.cc-banner', '.cookieNotice', '.js-cookie-consent',
    '.cookieModal', '.cookie-popup', '[aria-label*="cookie"]'];
  let hidden = 0;
  for (const sel of overlays) {
    document.querySelectorAll(sel).forEach(el => {
      el.style.pointerEvents = 'none';
      el.style.visibility = 'hidden';
      const r = el.getBoundingClientRect();
      if (r.width >= window.innerWidth * 0.6 || r.height >= window.innerHeight * 0.6) { el.remove(); }
      hidden++;
    });
  }
  if (hidden) { return 'overlay'; }

  const cookieText = /cookie|consent|gdpr|privacy/i;
  const buttonText = /^(accept|agree|allow|ok|got it|yes|continue)/i;
  for (const c of document.querySelectorAll('div, section, aside, dialog, form')) {
    if (c.offsetParent === null || !cookieText.test(c.innerText || '')) { continue; }
    for (const b of c.querySelectorAll('button, input[type=button], input[type=submit]')) {
      const txt = (b.innerText || b.value || '').trim();
      if (buttonText.test(txt)) { b.click(); return 'container ' + txt; }
    }
  }
  return '';
})()`
