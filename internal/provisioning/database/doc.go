// Package database provisions the managed RDS database instance.
package database
