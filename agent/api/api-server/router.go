package api_server

import (
	"fmt"
	"net/http"

	"github.com/akaspin/logx"
)

type Router struct {
	log       *logx.Log
	endpoints []*Endpoint
	mux       *http.ServeMux
}

func NewRouter(log *logx.Log, endpoints ...*Endpoint) (r *Router) {
	r = &Router{
		log:       log.GetLog("api", "router"),
		endpoints: endpoints,
		mux:       http.NewServeMux(),
	}
	paths := map[string][]*Endpoint{}
	for _, endpoint := range endpoints {
		paths[endpoint.path] = append(paths[endpoint.path], endpoint)
	}
	for path, recs := range paths {
		r.mux.HandleFunc(path, r.newHandler(recs))
	}
	r.mux.HandleFunc("/", r.notFoundHandlerFunc)
	return
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.log.Tracef("accepted %s %s", req.Method, req.URL)
	r.mux.ServeHTTP(w, req)
}

func (r *Router) newHandler(endpoints []*Endpoint) (fn func(w http.ResponseWriter, req *http.Request)) {
	byMethod := map[string]func(w http.ResponseWriter, req *http.Request){}
	for _, endpoint := range endpoints {
		byMethod[endpoint.method] = endpoint.getHandleFunc(r.log)
	}
	fn = func(w http.ResponseWriter, req *http.Request) {
		h, ok := byMethod[req.Method]
		if !ok {
			r.notAllowedHandlerFunc(w, req)
			return
		}
		h(w, req)
	}
	return
}

func (r *Router) notAllowedHandlerFunc(w http.ResponseWriter, req *http.Request) {
	sendCode(r.log, w, req, errorMethodsNotAllowed)
}

func (r *Router) notFoundHandlerFunc(w http.ResponseWriter, req *http.Request) {
	sendCode(r.log, w, req, NewError(http.StatusNotFound, fmt.Sprintf("not found %s", req.URL)))
}
