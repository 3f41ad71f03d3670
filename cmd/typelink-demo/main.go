// Command typelink-demo walks the full identity unification protocol with
// two modules that each carry their own compiled copy of the hierarchy.
package main

import (
	"fmt"
	"log/slog"
	"os"

	typelink "github.com/typelink-dev/typelink-sdk"
	"github.com/typelink-dev/typelink-sdk/interop"
	"github.com/typelink-dev/typelink-sdk/module"
	"github.com/typelink-dev/typelink-sdk/unify"
	"github.com/typelink-dev/typelink-sdk/worker"
)

var hostManifest = []byte(`
name: host
origin: HOST
abi: 1.2.0
compatible: "^1.0"
kinds:
  - shared-worker
  - typed-worker[integer]
  - typed-worker[text]
accept:
  - shared-worker
  - typed-worker[*]
`)

var extensionManifest = []byte(`
name: extension
origin: EXT
abi: 1.1.0
compatible: "^1.0"
kinds:
  - shared-worker
  - typed-worker[integer]
  - typed-worker[text]
accept:
  - shared-worker
  - typed-worker[*]
`)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	proc := typelink.NewProcess(typelink.WithLogger(logger))

	host, err := module.New(hostManifest, proc.Behaviors(), module.WithLogger(logger))
	if err != nil {
		return err
	}
	ext, err := module.New(extensionManifest, proc.Behaviors(), module.WithLogger(logger))
	if err != nil {
		return err
	}

	// Attachment order is load order: the host's behavior definitions win.
	if err := proc.Attach(host); err != nil {
		return err
	}
	if err := proc.Attach(ext); err != nil {
		return err
	}

	logger.Info("cross-boundary type unification")
	hostWorker, err := host.NewSharedWorker(500)
	if err != nil {
		return err
	}
	extWorker, err := ext.NewSharedWorker(600)
	if err != nil {
		return err
	}

	logger.Info("descriptor comparison",
		"host", hostWorker.Descriptor().Key(),
		"extension", extWorker.Descriptor().Key(),
		"same-kind", unify.SameKind(hostWorker.Descriptor(), extWorker.Descriptor()),
	)

	// Narrow each side's object through the other side's descriptor copy.
	if narrowed, ok := unify.Narrow(extWorker, host.Hierarchy().SharedWorker); ok {
		report, err := unify.Dispatch(narrowed, "act")
		if err != nil {
			return err
		}
		logger.Info("host narrowed extension object", "report", fmt.Sprintf("%+v", report))
	}
	if narrowed, ok := unify.Narrow(hostWorker, ext.Hierarchy().SharedWorker); ok {
		report, err := unify.Dispatch(narrowed, "act")
		if err != nil {
			return err
		}
		logger.Info("extension narrowed host object", "report", fmt.Sprintf("%+v", report))
	}

	logger.Info("generic kind distinctness")
	intWorker, err := host.NewTypedWorkerInt(1000)
	if err != nil {
		return err
	}
	textWorker, err := ext.NewTypedWorkerText("EXT_STRING")
	if err != nil {
		return err
	}
	logger.Info("typed workers",
		"int", intWorker.Identify(),
		"text", textWorker.Identify(),
		"same-kind", unify.SameKind(intWorker.Descriptor(), textWorker.Descriptor()),
	)

	logger.Info("duplicate behavior resolution")
	result, err := proc.Behaviors().Call(worker.SlotSharedFunctionResult)
	if err != nil {
		return err
	}
	origin, _ := proc.Behaviors().Origin(worker.SlotSharedFunctionResult)
	logger.Info("behavior slot resolved",
		"slot", worker.SlotSharedFunctionResult,
		"result", result,
		"winner", origin,
		"definitions", proc.Behaviors().Definitions(worker.SlotSharedFunctionResult),
	)
	if _, err := proc.Behaviors().Call(worker.SlotSharedOperation, 42); err != nil {
		return err
	}

	logger.Info("object exchange through the process edge")
	obj, err := proc.Exchange("extension", "host", worker.KindSharedWorker, map[string]any{"value": 600})
	if err != nil {
		return err
	}
	logger.Info("received object", "identify", obj.Identify(), "type", unify.Describe(obj))

	logger.Info("c-style interop surface")
	h, err := interop.Create(ext, 9999)
	if err != nil {
		return err
	}
	name, err := interop.Identify(h)
	if err != nil {
		return err
	}
	narrows, err := interop.NarrowTest(h)
	if err != nil {
		return err
	}
	logger.Info("interop handle", "handle", h, "identify", name, "narrows", narrows)
	if err := interop.PrintInfo(h); err != nil {
		return err
	}
	return interop.Destroy(h)
}
