package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/genbridge/docs.go`.
//
// @title           genbridge API
// @version         1.0
// @description     Guaranteed-reply text generation over an on-device model: method-channel calls, generation, status and schema.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
