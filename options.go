package simpledi

import "log/slog"

type Option func(*registryConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *registryConfig) {
		cfg.logger = logger
	}
}

// WithDescriptor replaces the type descriptor used to inspect and build types.
// The default is DefaultTypes.
func WithDescriptor(d Descriptor) Option {
	return func(cfg *registryConfig) {
		cfg.descriptor = d
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *registryConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithRegisterObserver(hook RegisterHook) Option {
	return func(cfg *registryConfig) {
		cfg.onRegister = append(cfg.onRegister, hook)
	}
}

func WithConstructObserver(hook ConstructHook) Option {
	return func(cfg *registryConfig) {
		cfg.onConstruct = append(cfg.onConstruct, hook)
	}
}
