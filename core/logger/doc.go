// Package logger provides slog attribute helpers shared across the module.
//
// Helpers follow the empty-Attr pattern for nil safety: passing a nil error
// or empty value yields an empty slog.Attr that handlers skip, so call sites
// never need explicit nil checks:
//
//	log.Error("delivery failed",
//	    logger.Error(err),
//	    logger.Component("broker"),
//	    logger.Elapsed(start))
//
// The helpers standardize attribute keys ("error", "component", "duration",
// "elapsed") so log output stays uniform across packages.
package logger
