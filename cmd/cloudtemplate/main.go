// Package main is the entry point for the cloudtemplate CLI.
//
// cloudtemplate stands up a fixed web-serving topology in one AWS region:
// a security group, one EC2 instance, an RDS database, an application load
// balancer with target group and listener, and an Auto Scaling group.
//
// Commands: apply, plan, destroy, doctor, version.
//
// For detailed usage information, run:
//
//	cloudtemplate --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/guzmanwolfrank/aws.cloudtemplate/cmd/cloudtemplate/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
