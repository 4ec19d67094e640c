// Package api exposes the household task board over HTTP. Handlers decode
// and validate requests, call the services and translate their errors into
// status codes and safe messages.
package api
