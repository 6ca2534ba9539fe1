// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
)

// envelopeWriter buffers a handler's response so withEnvelope can wrap it.
// Nothing reaches the underlying writer until the handler has returned;
// headers set by the handler do pass through.
//
// The first WriteHeader call wins; later calls are ignored, mirroring the
// [http.ResponseWriter] contract.
type envelopeWriter struct {
	http.ResponseWriter

	// status is the code recorded on the first WriteHeader call. Zero until
	// WriteHeader, or an implicit WriteHeader via Write, is called.
	status int

	wroteHeader bool

	// body accumulates every Write.
	body bytes.Buffer
}

func newEnvelopeWriter(w http.ResponseWriter) *envelopeWriter {
	return &envelopeWriter{ResponseWriter: w}
}

func (w *envelopeWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
}

func (w *envelopeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

// statusCode returns the recorded status, 200 if none was written.
func (w *envelopeWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// snapshot copies what the handler produced.
func (w *envelopeWriter) snapshot() responseData {
	return responseData{
		status:      w.statusCode(),
		contentType: w.Header().Get("Content-Type"),
		body:        bytes.Clone(w.body.Bytes()),
	}
}

// responseData is a value-type snapshot of a buffered response.
type responseData struct {
	status      int
	contentType string
	body        []byte
}
