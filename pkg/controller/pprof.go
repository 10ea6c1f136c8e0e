package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofPrefix is the path the profiling handlers are served under.
const PprofPrefix = "/debug/pprof/"

// PprofMux returns a ServeMux with the net/http/pprof handlers registered
// under PprofPrefix. Mount it at PprofPrefix without stripping the prefix;
// pprof.Index resolves named profiles from the full path.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(PprofPrefix, pprof.Index)
	mux.HandleFunc(PprofPrefix+"cmdline", pprof.Cmdline)
	mux.HandleFunc(PprofPrefix+"profile", pprof.Profile)
	mux.HandleFunc(PprofPrefix+"symbol", pprof.Symbol)
	mux.HandleFunc(PprofPrefix+"trace", pprof.Trace)

	return mux
}
