// Package pipeline connects the upstream chain feed to the ingestion
// orchestrator. The Datasource and Decoder interfaces mark the boundary to
// the external subscription/decoding collaborators; RPCProgramSubscribe is
// the websocket JSON-RPC implementation.
package pipeline
