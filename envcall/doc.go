// Package envcall answers the environment call of a libretro core.
//
// A Registry maps every environment command the session supports to a
// Handler. It is built once, from bundles of handlers that each translate
// one provider domain, and is immutable afterwards. The Dispatcher sits in
// front of it and enforces the per-command null payload policy.
//
// Every handler follows the same contract: it decodes the payload, asks its
// provider, and only then writes results back into the caller's memory. A
// handler that returns false has not touched the payload.
//
// Example usage:
//
//	providers, err := envcall.NewProviders(
//	    envcall.WithAudio(audio),
//	    envcall.WithVideo(video),
//	    envcall.WithInput(input),
//	    envcall.WithOptions(options),
//	)
//	registry, err := envcall.NewRegistry(
//	    envcall.WithMiddleware(envcall.PanicRecoveryMiddleware()),
//	    envcall.WithBundle(envcall.StandardBundles(providers, resources)),
//	)
//	dispatcher := envcall.NewDispatcher(registry)
package envcall
