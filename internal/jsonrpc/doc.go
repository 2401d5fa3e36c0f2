// Package jsonrpc holds the JSON-RPC 2.0 style wire model of the home API:
// request and reply objects, the error-code taxonomy, the pending-command
// queue and the schema validator that guards batch ingestion.
//
// Replies carry either a result or an error object, never both:
//
//	{"jsonrpc":"2.0","id":"1","result":{"data":"addRoom: success"}}
//	{"jsonrpc":"2.0","id":"2","error":{"code":1,"message":"Api logic error","data":"..."}}
//
// Batch-level failures (parse error, invalid request) produce a single
// reply object, not an array, whose id is null:
//
//	{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error","data":"..."}}
//
// Earlier home servers sent the bare error object for these
// ({"code":-32700,"message":"Parse error","data":"..."}). Clients ported
// from them must read the error member of the envelope instead;
// homeclient.DecodeReplies does this.
package jsonrpc
