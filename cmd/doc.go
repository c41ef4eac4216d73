// Package cmd implements the command-line interface of the
// atomic-shared-pointer toolbox. It provides a hierarchical command
// structure for exercising the library under contention.
//
// The package is organized into several subpackages:
//
//   - stress: randomized concurrent stress runs against the lock-free
//     stack and queue, with multiset verification and metrics reporting
//   - util: shared utilities for command-line processing and
//     configuration (internal use)
//
// See asp -help for a list of all commands.
package cmd
