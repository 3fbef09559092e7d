// Package header provides the envelope of the documents rig writes.
//
// Reports and listings start with a Kind, an APIVersion and free-form
// string Metadata, so consumers can tell documents apart and check the
// schema before parsing the rest:
//
//	kind: GenerateReport
//	apiVersion: rig.rigtool.dev/v1
//	metadata:
//	  timestamp: "2026-01-10T10:30:00Z"
//	  version: v0.4.0
//	  template: crafting
package header
