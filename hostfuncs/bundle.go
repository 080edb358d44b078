package hostfuncs

// HostFuncBundle is a pre-configured set of related host functions,
// normally one host module.
type HostFuncBundle interface {
	// Functions returns the host functions in the bundle.
	Functions() []HostFunction
}

// staticBundle implements HostFuncBundle with a fixed set of functions.
type staticBundle struct {
	functions []HostFunction
}

// newStaticBundle stamps module and fault onto every function.
func newStaticBundle(module string, fault uint32, fns []HostFunction) *staticBundle {
	for i := range fns {
		fns[i].Module = module
		fns[i].Fault = fault
	}
	return &staticBundle{functions: fns}
}

func (b *staticBundle) Functions() []HostFunction {
	out := make([]HostFunction, len(b.functions))
	copy(out, b.functions)
	return out
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Functions() []HostFunction {
	var out []HostFunction
	for _, bundle := range b.bundles {
		out = append(out, bundle.Functions()...)
	}
	return out
}

// AllBundles returns every bls host module bound to the given backends.
// Capabilities whose backend is nil are still exported and answer every
// call with their fault code, so guests importing them can instantiate.
func AllBundles(b *Backends) HostFuncBundle {
	if b == nil {
		b = &Backends{}
	}
	return &compositeBundle{
		bundles: []HostFuncBundle{
			HTTPBundle(b.HTTP),
			MemoryBundle(b.Memory),
			CGIBundle(b.CGI),
			SocketBundle(b.Socket),
			LLMBundle(b.LLM),
			RPCBundle(b.RPC),
			CrawlBundle(b.Crawl),
		},
	}
}

// WithBundle registers all functions from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, fn := range bundle.Functions() {
			if err := b.addFunction(fn); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithBackends registers every bls host module bound to backends.
func WithBackends(backends *Backends) RegistryOption {
	return WithBundle(AllBundles(backends))
}
