// Command poolsim replays frame workloads against a gpupool.Pool on the noop
// HAL backend and reports resource reuse and barrier counts.
//
// Usage:
//
//	poolsim run workload.toml --frames 60
//	poolsim cut 0:4,0:4 1:1,1:1
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
