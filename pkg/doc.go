// Package pkg provides the core libraries for Salesforce schema visualization.
//
// # Overview
//
// Schema Viewer reads sObject describe metadata from a Salesforce org and
// renders entity-relationship diagrams showing lookup and master-detail
// relationships between objects. The pkg directory is organized into four
// main areas:
//
//  1. Salesforce access ([salesforce], [schema]) - API client and describe model
//  2. Diagram model ([diagram], [geo], [layout]) - nodes, edges, routing, placement
//  3. Rendering ([render], [pipeline]) - SVG/JSON/DOT output and orchestration
//  4. Infrastructure ([cache], [session], [config], [errors], [httputil]) -
//     caching, sessions, configuration, error taxonomy, HTTP plumbing
//
// # Architecture
//
// The typical data flow:
//
//	Salesforce org (describe API)
//	         ↓
//	    [salesforce] package (fetch + cache describes)
//	         ↓
//	    [schema] package (build nodes and edges)
//	         ↓
//	    [layout] package (graphviz placement)
//	         ↓
//	    [diagram/route] package (edge anchors, curves, labels)
//	         ↓
//	    SVG/JSON/DOT output
//
// # Quick Start
//
// Describe objects and render a diagram:
//
//	import (
//	    "context"
//	    "github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
//	    "github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
//	)
//
//	client, _ := salesforce.NewClient(instanceURL, accessToken)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), client, pipeline.Options{
//	    Objects: []string{"Account", "Contact", "Opportunity"},
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Salesforce Access
//
// [salesforce] - REST client for the describe endpoints plus the OAuth
// web-server flow. Describe responses are cached per org.
//
// [schema] - Describe payload model and diagram construction: reference
// fields become edges, master-detail and cascade-delete relationships are
// classified as cascading.
//
// ## Diagram Model
//
// [diagram] - Nodes, edges, and the immutable snapshot the routing and
// rendering layers read from.
//
// [diagram/route] - Edge geometry: side classification, anchor
// distribution along entity box edges, bezier control points, label and
// cardinality placement.
//
// [diagram/measure] - Measurement bookkeeping for nodes whose size comes
// from the client.
//
// [geo] - Points, sizes, rectangles, and box-side primitives.
//
// [layout] - Server-side placement via Graphviz dot, with content-based
// size estimation for unmeasured nodes.
//
// ## Rendering & Orchestration
//
// [render] - SVG and JSON output for positioned diagrams.
//
// [pipeline] - Complete fetch → build → layout → render pipeline used by
// both the CLI and the HTTP API, with layout and artifact caching.
//
// ## Infrastructure
//
// [cache] - Cache interface with file, Redis, MongoDB, and null backends,
// plus content-addressed key derivation and per-org scoping.
//
// [session] - Session management for authenticated users. Provides memory,
// Redis, and file-based backends for sessions and OAuth state tokens.
//
// [config] - TOML configuration with environment variable overrides.
//
// [errors] - Error taxonomy with codes, user-safe messages, and HTTP
// status mapping.
//
// [httputil] - HTTP client with retry/backoff and JSON helpers.
//
// [observability] - Hook interfaces for pipeline, cache, and HTTP
// instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/diagram/route/...  # Specific package
//	go test -run Example             # Examples only
//
// [salesforce]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/salesforce
// [schema]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/schema
// [diagram]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/diagram
// [diagram/route]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/diagram/route
// [diagram/measure]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/diagram/measure
// [geo]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/geo
// [layout]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/layout
// [render]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/cache
// [session]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/session
// [config]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/config
// [errors]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/Jaganpro/sf-schema-viewer/pkg/observability
package pkg
