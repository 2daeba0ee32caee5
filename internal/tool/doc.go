// Package tool provides the dispatch core: a catalog of named tools with
// static parameter schemas, and a dispatcher that resolves invocations by
// name, filters arguments to each tool's declared parameters, and contains
// per-call failures.
//
// Components:
//   - Catalog: immutable name -> descriptor/handler mapping built once at
//     startup; last registration wins on duplicate names
//   - Dispatcher: resolution, argument filtering, error containment
//   - UnknownToolError / ToolExecutionError: the only error types a caller
//     ever observes from Execute
//
// The dispatcher is agnostic to parameter semantics: default injection for
// parameters such as output_dir is a caller-side policy layered on top of
// Signature.
//
// Example Usage:
//
//	catalog := tool.NewCatalog(regs, log)
//	dispatcher := tool.NewDispatcher(catalog, log, metrics)
//	result, err := dispatcher.Execute(ctx, "fetch_links", args)
package tool
