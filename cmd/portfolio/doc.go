// Package main hosts the portfolio CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the pipeline stages in
// internal/build, the hero setter, the inventory and inspection views, and the
// local preview and watch loops. It centralizes project root and
// configuration resolution along with logger setup so subcommands stay small.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through a command or flag here.
package main
