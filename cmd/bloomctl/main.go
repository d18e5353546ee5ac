// bloomctl builds, inspects and ships bloom filter files.
//
//	bloomctl [klog flags] <command> [command flags]
//
// Commands:
//
//	build  read newline separated keys and write an encoded filter
//	test   report member / absent for every key of a keys file
//	dump   print the set bits of an encoded filter
//	fpr    measure the false positive rate of a configuration with random keys
//	push   copy an encoded filter file into redis
//	pull   copy a filter from redis into a file
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

type command struct {
	usage string
	run   func(args []string) error
}

var commands = map[string]command{
	"build": {"-config file -keys file -out file [-kind bloom|dynamic]", runBuild},
	"test":  {"-in file -keys file [-kind bloom|dynamic]", runTest},
	"dump":  {"-in file [-kind bloom|dynamic]", runDump},
	"fpr":   {"[-config file] [-kind bloom|dynamic|rotating] [-n keys] [-probes keys]", runFPR},
	"push":  {"-in file -name key [-kind bloom|dynamic] [-redis addr] [-compression none|lz4|zstd] [-ttl d] [-bitmap]", runPush},
	"pull":  {"-name key -out file [-kind bloom|dynamic] [-redis addr] [-bitmap -config file]", runPull},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <command> [command flags]\n\ncommands:\n", os.Args[0])
	for _, name := range []string{"build", "test", "dump", "fpr", "push", "pull"} {
		fmt.Fprintf(os.Stderr, "  %-6s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nflags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	name := flag.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		klog.Errorf("unknown command %q", name)
		usage()
		os.Exit(2)
	}
	if err := cmd.run(flag.Args()[1:]); err != nil {
		klog.Flush()
		klog.Exitf("%s: %v", name, err)
	}
}
