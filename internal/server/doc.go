// Package server implements the MCP (Model Context Protocol) server for coin counting.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - coin_count: Detect, count and value the coins in one image
//   - coin_denominations: List the valuation table
//
// Every coin_count call loads the image from disk; nothing is cached between
// calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000. Pipeline failures carry a data object with "error_code" set to one of
// ADAPTER_UNAVAILABLE, DETECTION_FAILED, IMAGE_LOAD_FAILED or
// UNSUPPORTED_FORMAT; other failures carry the Go error string.
//
// When the detector could not be constructed the server still starts, answers
// initialize, tools/list and coin_denominations, and refuses coin_count with
// ADAPTER_UNAVAILABLE.
//
// # Usage
//
//	srv := server.New(server.Options{Counter: c, Version: version})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
