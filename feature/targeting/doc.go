// Package targeting exposes custom targeting key/value reconciliation over
// HTTP.
//
// The handlers are a thin layer over the sync engine: they normalise the
// loosely typed JSON payload to a list of strings, run the engine, and map
// expected absence (an unknown key) to 404.
//
// # HTTP Endpoints
//
//   - POST /targeting/keys : Create a freeform targeting key.
//   - GET  /targeting/keys/:name/values : List the key's current values
//     (supports ?attribute=id).
//   - POST /targeting/keys/:name/values : Upload candidate values
//     (body: values, create_key, batch_size).
//   - POST /targeting/keys/:name/values/deactivate : Bulk-deactivate the
//     named values.
package targeting
