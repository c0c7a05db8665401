package rod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"

	"ui-template/internal/application/port/output"
)

// CDP messages that mean the node or its document went away under a handle.
var staleMessages = []string{
	"could not find node with given id",
	"could not find object with given id",
	"no node with given id found",
	"node with given id does not belong to the document",
	"execution context was destroyed",
	"cannot find context with specified id",
	"object reference chain is too long",
}

// errDetached is reported when a handle points to a node no longer in the document.
var errDetached = errors.New("node is detached from the document")

// classify maps rod and CDP errors onto the output port signals.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, output.ErrNoSuchElement) || errors.Is(err, output.ErrStaleElement) || errors.Is(err, output.ErrDriver) {
		return err
	}

	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", op, output.ErrNoSuchElement)
	}

	var objNotFound *rod.ObjectNotFoundError
	if errors.As(err, &objNotFound) || errors.Is(err, errDetached) {
		return fmt.Errorf("%s: %w: %v", op, output.ErrStaleElement, err)
	}

	var cdpErr *cdp.Error
	if errors.As(err, &cdpErr) && isStaleMessage(cdpErr.Message) {
		return fmt.Errorf("%s: %w: %v", op, output.ErrStaleElement, err)
	}
	if isStaleMessage(err.Error()) {
		return fmt.Errorf("%s: %w: %v", op, output.ErrStaleElement, err)
	}

	return &output.DriverError{Op: op, Err: err}
}

func isStaleMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range staleMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
