package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-promised/pkg/codec"
	"go.uber.org/zap"
)

// Response is the per-request transport response. It is finalized at most
// once; a finalized Response returned from a handler means "already handled".
//
// Response implements http.ResponseWriter so standard handlers can write to it
// directly. Direct writes do not finalize; End does.
type Response struct {
	w     chimd.WrapResponseWriter
	req   *http.Request
	codec codec.Codec
	log   *zap.Logger

	mu        sync.Mutex
	status    int
	finalized bool
	closed    bool
	failure   error
	done      chan struct{}
}

func newResponse(w http.ResponseWriter, req *http.Request, c codec.Codec, log *zap.Logger) *Response {
	return &Response{
		w:      chimd.NewWrapResponseWriter(w, req.ProtoMajor),
		req:    req,
		codec:  c,
		log:    log,
		status: http.StatusOK,
		done:   make(chan struct{}),
	}
}

// Header returns the response headers.
func (r *Response) Header() http.Header { return r.w.Header() }

// Write writes body bytes without finalizing the response.
func (r *Response) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writableLocked(); err != nil {
		return 0, err
	}
	r.writeHeaderLocked()
	return r.w.Write(b)
}

// WriteHeader sends the status line now. Later calls are ignored.
func (r *Response) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writableLocked() != nil || r.w.Status() != 0 {
		return
	}
	r.status = code
	r.w.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *Response) Unwrap() http.ResponseWriter { return r.w }

// Status sets the status used by the next send.
func (r *Response) Status(code int) *Response {
	r.mu.Lock()
	r.status = code
	r.mu.Unlock()
	return r
}

// Send writes body and finalizes the response. The content type follows the
// payload: strings are HTML text, byte slices are binary, json.RawMessage is
// passed through, nil is an empty body and everything else is encoded with the
// codec. An explicit Content-Type header always wins.
func (r *Response) Send(body any) error {
	var (
		data []byte
		ct   string
	)
	switch b := body.(type) {
	case nil:
	case string:
		data, ct = []byte(b), "text/html; charset=utf-8"
	case json.RawMessage:
		data, ct = b, "application/json; charset=utf-8"
	case []byte:
		data, ct = b, "application/octet-stream"
	default:
		return r.JSON(b)
	}
	return r.send(data, ct)
}

// JSON encodes v with the codec and finalizes the response.
func (r *Response) JSON(v any) error {
	data, err := r.codec.Marshal(v)
	if err != nil {
		return err
	}
	return r.send(data, r.codec.ContentType())
}

// SendStatus finalizes with code and its status text as the body.
func (r *Response) SendStatus(code int) error {
	r.Status(code)
	return r.send([]byte(http.StatusText(code)), "text/plain; charset=utf-8")
}

// End finalizes the response without adding a body.
func (r *Response) End() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writableLocked(); err != nil {
		return err
	}
	r.writeHeaderLocked()
	r.finalizeLocked()
	return nil
}

func (r *Response) send(data []byte, ct string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writableLocked(); err != nil {
		return err
	}
	if r.w.Status() == 0 {
		h := r.w.Header()
		if ct != "" && h.Get("Content-Type") == "" {
			h.Set("Content-Type", ct)
		}
		h.Set("Content-Length", strconv.Itoa(len(data)))
	}
	r.writeHeaderLocked()
	var err error
	if len(data) > 0 && r.req.Method != http.MethodHead {
		_, err = r.w.Write(data)
	}
	r.finalizeLocked()
	return err
}

// Fail hands an error the handlers could not deal with to the host: it is
// logged and, when nothing was written yet, answered with a 500.
func (r *Response) Fail(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure == nil {
		r.failure = err
	}
	r.log.Error("unhandled request error",
		zap.String("httpMethod", r.req.Method),
		zap.String("uri", r.req.URL.Path),
		zap.Error(err),
	)
	if r.closed || r.finalized {
		return
	}
	if r.w.Status() == 0 {
		r.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		r.w.WriteHeader(http.StatusInternalServerError)
		_, _ = r.w.Write([]byte(http.StatusText(http.StatusInternalServerError)))
	}
	r.finalizeLocked()
}

// Err returns the first error passed to Fail.
func (r *Response) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failure
}

// Finalized reports whether the response has been completed.
func (r *Response) Finalized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalized
}

// Done is closed when the response is finalized.
func (r *Response) Done() <-chan struct{} { return r.done }

// StatusCode returns the written status, or the pending one if nothing was
// written yet.
func (r *Response) StatusCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.w.Status(); s != 0 {
		return s
	}
	return r.status
}

// BytesWritten returns the number of body bytes written so far.
func (r *Response) BytesWritten() int { return r.w.BytesWritten() }

// expire answers a request whose deadline passed before any handler responded.
func (r *Response) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.finalized {
		return
	}
	r.log.Warn("request deadline exceeded",
		zap.String("httpMethod", r.req.Method),
		zap.String("uri", r.req.URL.Path),
	)
	if r.w.Status() == 0 {
		r.w.WriteHeader(http.StatusGatewayTimeout)
	}
	r.finalizeLocked()
}

// close detaches the response from the writer once ServeHTTP has returned.
func (r *Response) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Response) writableLocked() error {
	switch {
	case r.closed:
		return ErrResponseClosed
	case r.finalized:
		return ErrAlreadySent
	}
	return nil
}

func (r *Response) writeHeaderLocked() {
	if r.w.Status() == 0 {
		r.w.WriteHeader(r.status)
	}
}

func (r *Response) finalizeLocked() {
	if r.finalized {
		return
	}
	r.finalized = true
	close(r.done)
}
