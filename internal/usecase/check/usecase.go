// Package check opens a page and waits for one element on it, the smallest
// end to end test the framework can run.
package check

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"ui-template/internal/adapter/component"
	"ui-template/internal/adapter/page"
	"ui-template/internal/application/port/input"
	"ui-template/internal/domain/entity"
)

var _ input.CheckRunner = (*UseCase)(nil)

var ErrInvalidRequest = errors.New("invalid check request")

type UseCase struct {
	site *page.Site
	now  func() time.Time
}

func New(site *page.Site) *UseCase {
	return &UseCase{site: site, now: time.Now}
}

// Run opens req.URL and waits until req.Selector is displayed. A relative
// URL is resolved against the site's base URL.
func (uc *UseCase) Run(ctx context.Context, req input.CheckRequest) (*input.CheckResult, error) {
	if req.Selector == "" {
		return nil, fmt.Errorf("%w: selector is empty", ErrInvalidRequest)
	}
	target, err := uc.resolve(req.URL)
	if err != nil {
		return nil, err
	}
	log := uc.site.Env.Logger
	start := uc.now()

	p, err := page.NewBase(uc.siteFor(target), pathOf(target))
	if err != nil {
		return nil, err
	}
	log.Info("check started", "url", target.String(), "selector", req.Selector)
	if err := p.Open(ctx); err != nil {
		return nil, fmt.Errorf("open %s: %w", target, err)
	}
	if err := p.WaitForReady(ctx); err != nil {
		return nil, err
	}
	if err := p.CheckForErrors(); err != nil {
		return nil, err
	}

	el := component.NewSimple(uc.site.Env, entity.ParseSelector(req.Selector), component.WithName("Target"))
	res := &input.CheckResult{URL: target.String()}
	res.Title, _ = uc.site.Env.Session.Title()
	if err := el.WaitForDisplayed(ctx); err != nil {
		res.Elapsed = uc.now().Sub(start)
		return res, err
	}
	res.Displayed = true
	if res.Text, err = el.InnerTextOnly(ctx); err != nil {
		log.Warn("cannot read text of the element", "selector", req.Selector, "error", err)
	}
	res.Elapsed = uc.now().Sub(start)
	log.Info("check passed", "url", res.URL, "title", res.Title, "elapsed", res.Elapsed)
	return res, nil
}

func (uc *UseCase) resolve(raw string) (*url.URL, error) {
	base, err := url.Parse(uc.site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", ErrInvalidRequest, err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: url %q: %v", ErrInvalidRequest, raw, err)
	}
	target := base.ResolveReference(ref)
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: url %q is not absolute and there is no base url", ErrInvalidRequest, raw)
	}
	return target, nil
}

// siteFor keeps the configured site when the target lives on it. Other hosts
// get a site without credentials.
func (uc *UseCase) siteFor(target *url.URL) *page.Site {
	origin := target.Scheme + "://" + target.Host
	if base, err := url.Parse(uc.site.BaseURL); err == nil && base.Scheme+"://"+base.Host == origin {
		return uc.site
	}
	return page.NewSite(uc.site.Env, origin, "", "")
}

func pathOf(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		p += "#" + u.EscapedFragment()
	}
	return p
}
