package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/zeu5/bandit-rl-test/benchmarks"
)

// main entry point to all the experiments
func main() {
	rootCommand := benchmarks.GetRootCommand()
	err := rootCommand.Execute()
	glog.Flush()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
