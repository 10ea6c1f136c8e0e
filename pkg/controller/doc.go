// Package controller contains the HTTP middlewares and helper handlers shared
// by the API server: CORS, request IDs with access logging, and pprof.
package controller
