// Package schema reflects tool request types into JSON schemas and keeps the
// process-wide registry of tool parameter contracts used by the parameter
// inference engine and the transport's tool listing.
package schema
