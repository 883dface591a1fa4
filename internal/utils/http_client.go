// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"github.com/go-resty/resty/v2"
)

// TraceIDHeader carries the trace id between client and server.
const TraceIDHeader = "X-Trace-ID"

// HTTPClient embeds *resty.Client. Requests whose context carries a trace
// id send it in the X-Trace-ID header, so client and server log lines of one
// operation share an id.
type HTTPClient struct {
	*resty.Client
}

func NewHTTPClient() *HTTPClient {
	client := resty.New()
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if traceID, ok := GetTraceIDFromContext(req.Context()); ok {
			req.SetHeader(TraceIDHeader, traceID)
		}
		return nil
	})
	return &HTTPClient{Client: client}
}
