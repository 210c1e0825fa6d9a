package errors

import (
	"errors"
	"fmt"
)

// UpstreamDetail carries raw upstream diagnostics for incident logs.
// It is attached as the cause of an UPSTREAM_ERROR and never exposed
// in public responses.
type UpstreamDetail struct {
	Endpoint string
	Status   int
	Body     string
}

func (u *UpstreamDetail) Error() string {
	return fmt.Sprintf("upstream %s returned %d: %s", u.Endpoint, u.Status, u.Body)
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamEndpoint string `json:"upstream_endpoint,omitempty"`
	UpstreamStatus   int    `json:"upstream_status,omitempty"`
	UpstreamBody     string `json:"upstream_body,omitempty"`
}

// Dump flattens an error chain into loggable fields, surfacing any
// upstream diagnostics found along the chain.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upstream *UpstreamDetail
	if errors.As(err, &upstream) {
		d.UpstreamEndpoint = upstream.Endpoint
		d.UpstreamStatus = upstream.Status
		d.UpstreamBody = upstream.Body
	}

	return d
}
