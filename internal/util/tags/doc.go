// Package tags provides consistent tagging for the AWS resources of one stack.
//
// Tag keys use the cloudtemplate: prefix. The builder sets the stack name and
// the managing tool, and optionally the run id and the Name tag that EC2
// consoles display.
package tags
