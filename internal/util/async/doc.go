// Package async provides utilities for parallel task execution.
//
// [RunAll] runs tasks concurrently, waits for every one, and reports each
// outcome in task order, so one failure never hides the others.
package async
