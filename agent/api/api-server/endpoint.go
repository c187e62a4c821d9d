package api_server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/akaspin/logx"
)

type Endpoint struct {
	path      string
	method    string
	processor Processor
}

// Returns GET route
func GET(path string, processor Processor) (r *Endpoint) {
	return NewEndpoint(http.MethodGet, path, processor)
}

// Returns POST route
func POST(path string, processor Processor) (r *Endpoint) {
	return NewEndpoint(http.MethodPost, path, processor)
}

// Returns PUT route
func PUT(path string, processor Processor) (r *Endpoint) {
	return NewEndpoint(http.MethodPut, path, processor)
}

// Returns DELETE route
func DELETE(path string, processor Processor) (r *Endpoint) {
	return NewEndpoint(http.MethodDelete, path, processor)
}

func NewEndpoint(method, path string, processor Processor) (r *Endpoint) {
	return &Endpoint{
		method:    method,
		path:      path,
		processor: processor,
	}
}

func (e *Endpoint) Processor() (p Processor) {
	return e.processor
}

// generates local HTTP handler
func (e *Endpoint) getHandleFunc(log *logx.Log) (h func(w http.ResponseWriter, req *http.Request)) {
	return func(w http.ResponseWriter, req *http.Request) {
		var err error
		empty := e.processor.Empty()
		if empty != nil {
			var raw []byte
			func() {
				defer req.Body.Close()
				raw, err = io.ReadAll(req.Body)
			}()
			if err != nil {
				sendCode(log, w, req, NewError(http.StatusBadRequest, "can't read request"))
				return
			}
			if err = requestCodec(req).Unmarshal(raw, empty); err != nil {
				sendCode(log, w, req, NewError(http.StatusBadRequest, "can't parse request"))
				return
			}
		}
		var data interface{}
		if data, err = e.processor.Process(req.Context(), req.URL, empty); err != nil {
			if err == ErrorBadRequestData {
				sendCode(log, w, req, NewError(http.StatusBadRequest, "bad request data"))
				return
			}
			sendCode(log, w, req, err)
			return
		}
		codec := responseCodec(req)
		var raw []byte
		if raw, err = codec.Marshal(&data); err != nil {
			sendCode(log, w, req, NewError(http.StatusInternalServerError, "can't marshal response"))
			return
		}
		w.Header().Set("Content-Type", codec.ContentType())
		if _, ok := req.URL.Query()["pretty"]; ok && codec.ContentType() == ContentTypeJSON {
			var buf bytes.Buffer
			if err = json.Indent(&buf, raw, "", "  "); err != nil {
				sendCode(log, w, req, NewError(http.StatusInternalServerError, "can't marshal response"))
				return
			}
			w.Write(append(buf.Bytes(), "\n"...))
			return
		}
		w.Write(raw)
		log.Debugf(`ok %s %s`, req.Method, req.URL.String())
	}
}
