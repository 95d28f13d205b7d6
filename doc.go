// Package cssbundle is the stylesheet stage of a module bundler.
//
// Each stylesheet file found by the host is routed to one of three outputs:
// inlined into the JS bundle as a registered string, written to its own file
// with a sibling source map, or absorbed into a named group whose members are
// concatenated into a single artifact at finalize time.
//
// # Usage
//
//	plugin := cssbundle.New(cssbundle.Options{
//		Group:   "bundle.css",
//		OutFile: cssbundle.StaticPath("dist/bundle.css"),
//		Minify:  true,
//	})
//	ctx := cssbundle.NewContext(".", logger, hub)
//	plugin.Init(ctx)
//	for _, f := range files {
//		if _, err := plugin.Transform(ctx, f); err != nil {
//			return err
//		}
//	}
//	for _, g := range ctx.Groups() {
//		if _, err := g.Finalize(ctx); err != nil {
//			return err
//		}
//	}
//	return ctx.Wait()
//
// Transform and Finalize must be called from a single goroutine. Only file
// writes for individually written outputs run in the background; Wait
// collects their errors.
//
// See cmd/cssbundle for a CLI host built on this package.
package cssbundle
