// Package services defines shared utilities consumed by the pipeline
// components and external provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and scene numbers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's taxonomy (caller, transient provider, permanent
//     provider, toolchain precondition, assembly execution).
//
// Use these helpers when wiring new provider or assembly logic so
// operational behaviour (error handling, observability, retries) stays
// uniform across the pipeline.
package services
