// Package handlers exposes the reconciliation engine and the roster over
// HTTP. List endpoints query the database directly; every mutation of fees,
// fines, and payments goes through the engine.
package handlers

import (
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
)

var engine *reconcile.Engine

// Setup injects the engine. Called once from main before routes are served.
func Setup(e *reconcile.Engine) {
	engine = e
}
