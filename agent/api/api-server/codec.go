package api_server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// Codec serializes request and response bodies. JSON is the readable
// default; CBOR is the compact binary alternative.
type Codec interface {
	ContentType() string
	Marshal(v interface{}) (data []byte, err error)
	Unmarshal(data []byte, v interface{}) (err error)
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string {
	return ContentTypeJSON
}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type cborCodec struct{}

func (cborCodec) ContentType() string {
	return ContentTypeCBOR
}

func (cborCodec) Marshal(v interface{}) ([]byte, error) {
	return cbor.Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

// requestCodec selects codec for the request body by Content-Type
func requestCodec(req *http.Request) (c Codec) {
	c = codecFor(req.Header.Get("Content-Type"))
	return
}

// responseCodec selects codec for the response body: Accept wins, then the
// request Content-Type family
func responseCodec(req *http.Request) (c Codec) {
	if accept := req.Header.Get("Accept"); accept != "" && accept != "*/*" {
		c = codecFor(accept)
		return
	}
	c = requestCodec(req)
	return
}

func codecFor(contentType string) (c Codec) {
	if strings.HasPrefix(contentType, ContentTypeCBOR) {
		c = cborCodec{}
		return
	}
	c = jsonCodec{}
	return
}
