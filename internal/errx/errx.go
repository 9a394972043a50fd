// Package errx collects several validation problems into one joined error.
package errx

import (
	"errors"
	"fmt"
)

// Collector accumulates errors
type Collector struct {
	errs []error
}

// New returns an empty collector
func New() *Collector {
	return &Collector{}
}

// Add records err if it is not nil
func (c *Collector) Add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// Wrapf records sentinel with a formatted detail
func (c *Collector) Wrapf(sentinel error, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// If records sentinel with a formatted detail when cond holds
func (c *Collector) If(cond bool, sentinel error, format string, args ...any) {
	if cond {
		c.Wrapf(sentinel, format, args...)
	}
}

// Len reports how many errors were recorded
func (c *Collector) Len() int {
	return len(c.errs)
}

// Err joins everything recorded, or returns nil
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return errors.Join(c.errs...)
}
