package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karbo-project/walletnode/services/node"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "walletnode"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

// coreFactory is the seam where a consensus engine is linked in. Embedded
// mode is unavailable until a build provides one.
var coreFactory node.CoreFactory

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	logger := ulogger.New(progname)

	remote := flag.Bool("remote", false, "connect to a remote daemon instead of running an embedded node")
	help := flag.Bool("help", false, "Show help")

	flag.Parse()

	if help != nil && *help {
		fmt.Println("usage: walletnode [options]")
		fmt.Println("where options are:")
		fmt.Println("")
		fmt.Println("    -remote=<1|0>")
		fmt.Println("          proxy a remote daemon instead of running an embedded node")
		fmt.Println("")
		return
	}

	logger.Infof("VERSION\n-------\n%s (%s)\n\n", version, commit)

	go func() {
		profilerAddr, ok := gocore.Config().Get("profilerAddr")
		if ok {
			logger.Infof("Starting profile on http://%s/debug/pprof", profilerAddr)
			logger.Fatalf("%v", http.ListenAndServe(profilerAddr, nil))
		}
	}()

	prometheusEndpoint, ok := gocore.Config().Get("prometheusEndpoint")
	if ok && prometheusEndpoint != "" {
		logger.Infof("Starting prometheus endpoint on %s", prometheusEndpoint)
		http.Handle(prometheusEndpoint, promhttp.Handler())
	}

	tSettings := settings.NewSettings()

	var (
		n   node.Node
		err error
	)

	if *remote {
		n = node.NewRemoteNode(logger, tSettings)
	} else {
		if coreFactory == nil {
			logger.Fatalf("embedded mode requires a consensus core, run with -remote=1")
		}

		n, err = node.NewEmbeddedNode(logger, tSettings, coreFactory)
		if err != nil {
			logger.Fatalf("failed to construct embedded node: %v", err)
		}
	}

	logger.Infof("starting %s node", n.Type())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = n.Init(ctx); err != nil {
		logger.Fatalf("node init failed: %v", err)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signalChan
		logger.Infof("received signal: %v, shutting down", sig)

		if err := n.Stop(context.Background()); err != nil {
			logger.Errorf("error stopping node: %v", err)
		}

		cancel()
	}()

	if err = n.Run(ctx); err != nil {
		logger.Errorf("node run failed: %v", err)
		os.Exit(1)
	}
}
