package worker

import (
	"fmt"
	"log/slog"

	"github.com/typelink-dev/typelink-sdk/behavior"
	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/registry"
)

// SharedWorkerArgs is the constructor argument model for shared-worker.
type SharedWorkerArgs struct {
	Value int `json:"value"`
}

// TypedIntegerArgs is the constructor argument model for
// typed-worker[integer].
type TypedIntegerArgs struct {
	Value int `json:"value"`
}

// TypedTextArgs is the constructor argument model for typed-worker[text].
type TypedTextArgs struct {
	Value string `json:"value"`
}

// ActReport is what the "act" operation returns through dispatch. The
// origin is the label of the module whose table serviced the call.
type ActReport struct {
	Origin string
	Value  int
}

// RegisterKinds installs the concrete kinds and the module's duplicate
// behavior definitions. Called once per module during initialization;
// re-registration with the same content is a no-op.
func RegisterKinds(reg *registry.Registry, behaviors *behavior.Table, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	origin := reg.Origin()
	h := NewHierarchy()

	ops := opsTable(origin)

	destroy := func(obj capability.Object) {
		logger.Debug("destroying instance", "module", origin, "kind", obj.Identify())
	}

	err := reg.Register(h.SharedWorker, registry.Entry{
		Construct: func(args map[string]any) (capability.Object, error) {
			value, err := intArg(args, "value")
			if err != nil {
				return nil, err
			}
			logger.Info("creating shared-worker", "module", origin, "value", value)
			return NewSharedWorker(h.SharedWorker, value, origin, ops, logger), nil
		},
		Destroy:   destroy,
		Ops:       ops,
		ArgsModel: SharedWorkerArgs{},
	})
	if err != nil {
		return err
	}

	err = reg.Register(h.TypedWorkerInteger, registry.Entry{
		Construct: func(args map[string]any) (capability.Object, error) {
			value, err := intArg(args, "value")
			if err != nil {
				return nil, err
			}
			logger.Info("creating typed-worker[integer]", "module", origin, "value", value)
			return NewTypedWorker(h.TypedWorkerInteger, value, origin, ops, logger), nil
		},
		Destroy:   destroy,
		Ops:       ops,
		ArgsModel: TypedIntegerArgs{},
	})
	if err != nil {
		return err
	}

	err = reg.Register(h.TypedWorkerText, registry.Entry{
		Construct: func(args map[string]any) (capability.Object, error) {
			value, err := textArg(args, "value")
			if err != nil {
				return nil, err
			}
			logger.Info("creating typed-worker[text]", "module", origin, "value", value)
			return NewTypedWorker(h.TypedWorkerText, value, origin, ops, logger), nil
		},
		Destroy:   destroy,
		Ops:       ops,
		ArgsModel: TypedTextArgs{},
	})
	if err != nil {
		return err
	}

	registerBehaviors(behaviors, origin, logger)
	return nil
}

// opsTable builds the module's operations table. The closures capture the
// registering module's origin label: dispatch through this table always
// reports that label, no matter where the call came from.
func opsTable(origin string) capability.OpsTable {
	return capability.OpsTable{
		"act": func(obj capability.Object, args ...any) (any, error) {
			obj.Act()
			return ActReport{Origin: origin, Value: obj.Value()}, nil
		},
		"work": func(obj capability.Object, args ...any) (any, error) {
			w, ok := obj.(capability.Worker)
			if !ok {
				return nil, fmt.Errorf("kind %s is not a worker", obj.Identify())
			}
			w.Work()
			return ActReport{Origin: origin, Value: obj.Value()}, nil
		},
		"describe": func(obj capability.Object, args ...any) (any, error) {
			return obj.Describe(), nil
		},
		"value": func(obj capability.Object, args ...any) (any, error) {
			return obj.Value(), nil
		},
		"ready": func(obj capability.Object, args ...any) (any, error) {
			w, ok := obj.(capability.Worker)
			if !ok {
				return nil, fmt.Errorf("kind %s is not a worker", obj.Identify())
			}
			return w.IsReady(), nil
		},
	}
}

// registerBehaviors installs this module's definitions of the shared
// behavior slots. All definitions are functionally equivalent; the origin
// tag exists for observability only. Whichever module initializes first
// wins the slot for the whole process.
func registerBehaviors(behaviors *behavior.Table, origin string, logger *slog.Logger) {
	if behaviors == nil {
		return
	}
	behaviors.Register(SlotSharedFunctionResult, origin, func(args ...any) (any, error) {
		return fmt.Sprintf("shared function result from %s", origin), nil
	})
	behaviors.Register(SlotSharedOperation, origin, func(args ...any) (any, error) {
		value := 0
		if len(args) > 0 {
			if v, ok := args[0].(int); ok {
				value = v
			}
		}
		logger.Info("performing shared operation", "resolved-by", origin, "value", value)
		return origin, nil
	})
}

// intArg reads an integer argument. JSON-decoded payloads deliver numbers
// as float64; typed callers deliver int.
func intArg(args map[string]any, name string) (int, error) {
	raw, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", name, raw)
	}
}

func textArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be text, got %T", name, raw)
	}
	return s, nil
}
