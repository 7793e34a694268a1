package dashboard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMetric = errors.New("unknown forecast metric")
	ErrNoData        = errors.New("warehouse returned no rows")
)

// PanelError scopes a failure to a single dashboard panel so one broken
// panel never takes down the rest of the page.
type PanelError struct {
	Panel string
	Err   error
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("panel %s: %v", e.Panel, e.Err)
}

func (e *PanelError) Unwrap() error {
	return e.Err
}
