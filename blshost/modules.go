package blshost

import (
	"context"

	"github.com/blessnetwork/bls-sdk-go/hostfuncs"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// registerHostModules exports every registry function under its host
// module. All parameters are i32 and every function returns one i32
// status code.
func (r *Runner) registerHostModules(ctx context.Context) error {
	for _, module := range r.registry.Modules() {
		builder := r.runtime.NewHostModuleBuilder(module)
		for _, fn := range r.registry.Functions(module) {
			params := make([]api.ValueType, fn.Params)
			for i := range params {
				params[i] = api.ValueTypeI32
			}
			builder.NewFunctionBuilder().
				WithGoModuleFunction(r.bind(fn), params, []api.ValueType{api.ValueTypeI32}).
				Export(fn.Name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return err
		}
		r.logger.Debug("host module bound",
			zap.String("module", module),
			zap.Int("functions", len(r.registry.Functions(module))))
	}
	return nil
}

func (r *Runner) bind(fn hostfuncs.HostFunction) api.GoModuleFunc {
	module, name := fn.Module, fn.Name
	return func(ctx context.Context, m api.Module, stack []uint64) {
		if err := r.registry.Invoke(ctx, module, name, guestMemory(m), stack); err != nil {
			r.logger.Error("host call rejected", zap.String("function", fn.QualifiedName()), zap.Error(err))
			stack[0] = uint64(fn.Fault)
		}
	}
}

// guestMemory returns the memory exported by m. A guest without memory
// gets an empty view, so every pointer argument faults.
func guestMemory(m api.Module) hostfuncs.GuestMemory {
	if mem := m.Memory(); mem != nil {
		return mem
	}
	return hostfuncs.SliceMemory(nil)
}
