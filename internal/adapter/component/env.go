// Package component wraps located elements into page building blocks whose
// state checks survive re-rendering.
package component

import (
	"context"
	"fmt"

	"ui-template/internal/application/port/output"
	"ui-template/internal/usecase/wait"
)

// ReadyScript reports whether the application finished its background work.
const ReadyScript = `() => !window.ngBusy`

// Env is what every component and page of one test shares.
type Env struct {
	Session output.Session
	Logger  output.LoggerPort
	Waits   *wait.Factory
}

// IsReady runs ReadyScript once.
func (e *Env) IsReady(ctx context.Context) (bool, error) {
	res, err := e.Session.Eval(ctx, ReadyScript)
	if err != nil {
		return false, err
	}
	ready := res == "true"
	e.Logger.Verbose("page readiness checked", "ready", ready)
	return ready, nil
}

// WaitForReady polls IsReady for the page load timeout.
func (e *Env) WaitForReady(ctx context.Context) error {
	url, _ := e.Session.URL()
	w := e.Waits.PageLoad().SetMessage(fmt.Sprintf(
		"Page '%s' wasn't completely ready during the timeout, because javascript command '%s' was still returning false value.",
		url, ReadyScript))
	return w.UntilTrue(ctx, func() (bool, error) { return e.IsReady(ctx) })
}
