package adapters

import (
	"errors"
	"fmt"

	"github.com/pysugar/task-nexus/internal/unified"
	"github.com/pysugar/task-nexus/internal/util"
)

// UpstreamError reports a non-2xx vendor response. Status carries the vendor
// HTTP status code so callers can map it without parsing the message.
// A Status of 0 means the vendor response never arrived or was unreadable.
type UpstreamError struct {
	Service unified.ServiceType
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s api error: %d %s", e.Service, e.Status, util.TruncateLog(e.Body, 256))
}

// StatusOf returns the vendor HTTP status carried by err, or 0 when err is
// not an UpstreamError.
func StatusOf(err error) int {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status
	}
	return 0
}
