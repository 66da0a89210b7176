// Package http serves the factory over HTTP.
//
// Bodies use the codec wire format. Decode failures are answered with 400
// and {"error": ...}; operation failures are regular 200 replies whose body
// is {"Err": ...}. Harness failures map to 409 (initialization order),
// 503 (stopped) and 504 (caller deadline).
package http
